package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const fileExt = ".json"

// FileStore keeps one JSON document per key under a root directory.
// Every process opened on the same directory shares the same data;
// cross-process change notifications come from an fsnotify watcher on
// the directory, own writes are delivered through the in-process bus.
type FileStore struct {
	dir     string
	bus     *bus
	watcher *fsnotify.Watcher

	mu sync.Mutex
	// last raw content seen per key, used to fill Event.OldValue and to
	// tell our own writes apart from other processes' writes.
	seen map[string][]byte

	done chan struct{}
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch store dir: %w", err)
	}

	s := &FileStore{
		dir:     dir,
		bus:     newBus(),
		watcher: watcher,
		seen:    make(map[string][]byte),
		done:    make(chan struct{}),
	}
	go s.watch()
	return s, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *FileStore) Get(ctx context.Context, key string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read key %q: %w", key, err)
	}
	s.seen[key] = raw

	// Malformed content is treated as absent, never as a fatal error.
	if err := json.Unmarshal(raw, out); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *FileStore) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode key %q: %w", key, err)
	}

	s.mu.Lock()
	old, _ := os.ReadFile(s.path(key))

	// Write-then-rename so watchers in other processes never observe a
	// partially written document.
	tmp := filepath.Join(s.dir, "."+key+".tmp")
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("write key %q: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("write key %q: %w", key, err)
	}
	s.seen[key] = raw
	s.mu.Unlock()

	s.bus.emit(Event{Key: key, OldValue: old, NewValue: raw})
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	old, _ := os.ReadFile(s.path(key))
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		s.mu.Unlock()
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	delete(s.seen, key)
	s.mu.Unlock()

	if old != nil {
		s.bus.emit(Event{Key: key, OldValue: old, NewValue: nil})
	}
	return nil
}

func (s *FileStore) Subscribe(key string, fn func(Event)) func() {
	return s.bus.subscribe(key, fn)
}

func (s *FileStore) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	return s.watcher.Close()
}

// watch translates filesystem events from other processes into store
// events. Own writes are recognized by content and skipped, since they
// were already delivered through the bus.
func (s *FileStore) watch() {
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleFSEvent(ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Debug("store watcher error", "error", err)
		case <-s.done:
			return
		}
	}
}

func (s *FileStore) handleFSEvent(ev fsnotify.Event) {
	base := filepath.Base(ev.Name)
	if !strings.HasSuffix(base, fileExt) {
		return
	}
	key := strings.TrimSuffix(base, fileExt)

	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		s.mu.Lock()
		old, known := s.seen[key]
		if _, err := os.Stat(s.path(key)); err == nil {
			// The file still exists (rename landed a new version);
			// fall through to the read path below.
			s.mu.Unlock()
		} else {
			delete(s.seen, key)
			s.mu.Unlock()
			if known {
				s.bus.emit(Event{Key: key, OldValue: old, NewValue: nil})
			}
			return
		}
	} else if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}

	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		return
	}

	s.mu.Lock()
	old := s.seen[key]
	if bytes.Equal(old, raw) {
		// Our own write, or no effective change.
		s.mu.Unlock()
		return
	}
	s.seen[key] = raw
	s.mu.Unlock()

	s.bus.emit(Event{Key: key, OldValue: old, NewValue: raw})
}

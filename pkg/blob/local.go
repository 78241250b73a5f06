package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores content as files under a root directory. The reference
// is "<uuid>/<name>", so it stays valid across restarts as long as the
// directory does.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Put(ctx context.Context, name string, content io.Reader) (string, error) {
	ref := uuid.NewString() + "/" + filepath.Base(name)

	path := l.path(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("store blob %q: %w", name, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("store blob %q: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("store blob %q: %w", name, err)
	}
	return ref, nil
}

func (l *Local) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open blob %q: %w", ref, err)
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, ref string) error {
	err := os.Remove(l.path(ref))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %q: %w", ref, err)
	}
	// Best-effort removal of the now-empty reference directory.
	os.Remove(filepath.Dir(l.path(ref)))
	return nil
}

func (l *Local) URL(ctx context.Context, ref string) (string, error) {
	return "file://" + l.path(ref), nil
}

func (l *Local) path(ref string) string {
	// References are "<uuid>/<base name>"; anything else cannot leave
	// the root directory.
	ref = strings.ReplaceAll(ref, "..", "")
	return filepath.Join(l.dir, filepath.FromSlash(ref))
}

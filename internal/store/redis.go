package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const channelPrefix = "dentdesk:store:"

// wireEvent is the pub/sub payload for a store change. Origin carries
// the writing store's instance id so a context can skip the broadcast
// copy of a change it already delivered to its own subscribers.
type wireEvent struct {
	Key      string          `json:"key"`
	OldValue json.RawMessage `json:"oldValue,omitempty"`
	NewValue json.RawMessage `json:"newValue,omitempty"`
	Origin   string          `json:"origin"`
}

// RedisStore keeps each key as a redis string and broadcasts change
// events on a per-key pub/sub channel, so any number of processes
// share one storage origin.
type RedisStore struct {
	rdb    *goredis.Client
	bus    *bus
	origin string
	sub    *goredis.PubSub
	done   chan struct{}
}

func NewRedisStore(rdb *goredis.Client) (*RedisStore, error) {
	s := &RedisStore{
		rdb:    rdb,
		bus:    newBus(),
		origin: uuid.NewString(),
		done:   make(chan struct{}),
	}
	s.sub = rdb.PSubscribe(context.Background(), channelPrefix+"*")
	if _, err := s.sub.Receive(context.Background()); err != nil {
		return nil, fmt.Errorf("subscribe store channel: %w", err)
	}
	go s.listen()
	return s, nil
}

func (s *RedisStore) Get(ctx context.Context, key string, out any) error {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return ErrNotFound
		}
		return fmt.Errorf("read key %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode key %q: %w", key, err)
	}

	old, _ := s.rdb.Get(ctx, key).Bytes()
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}

	s.broadcast(ctx, Event{Key: key, OldValue: old, NewValue: raw})
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	old, _ := s.rdb.Get(ctx, key).Bytes()
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	if old != nil {
		s.broadcast(ctx, Event{Key: key, OldValue: old, NewValue: nil})
	}
	return nil
}

func (s *RedisStore) Subscribe(key string, fn func(Event)) func() {
	return s.bus.subscribe(key, fn)
}

func (s *RedisStore) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	return s.sub.Close()
}

// broadcast delivers locally first, then publishes for other contexts.
// Publish failures are logged, not returned: notification delivery is
// best-effort by contract.
func (s *RedisStore) broadcast(ctx context.Context, e Event) {
	s.bus.emit(e)

	payload, err := json.Marshal(wireEvent{
		Key:      e.Key,
		OldValue: e.OldValue,
		NewValue: e.NewValue,
		Origin:   s.origin,
	})
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, channelPrefix+e.Key, payload).Err(); err != nil {
		slog.Debug("store broadcast failed", "key", e.Key, "error", err)
	}
}

func (s *RedisStore) listen() {
	ch := s.sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var we wireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &we); err != nil {
				continue
			}
			if we.Origin == s.origin {
				continue
			}
			s.bus.emit(Event{Key: we.Key, OldValue: we.OldValue, NewValue: we.NewValue})
		case <-s.done:
			return
		}
	}
}

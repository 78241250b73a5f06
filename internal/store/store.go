package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is the absent marker: the key is unset, or its content
// could not be decoded and is treated as unset.
var ErrNotFound = errors.New("store: key not found")

// Event describes one observed change to a store key. OldValue is nil
// when the key was previously absent, NewValue is nil after a delete.
type Event struct {
	Key      string
	OldValue json.RawMessage
	NewValue json.RawMessage
}

// Store is a durable string-keyed JSON document store shared by every
// context pointed at the same storage origin. Put and Delete broadcast
// a change notification to subscribers in this context and, best-effort,
// to other contexts sharing the origin. Delivery is fire-and-forget and
// ordered per key only.
type Store interface {
	// Get decodes the value under key into out. Returns ErrNotFound if
	// the key is unset or holds malformed content.
	Get(ctx context.Context, key string, out any) error

	// Put serializes value and writes it under key.
	Put(ctx context.Context, key string, value any) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Subscribe registers fn for change events on key. The returned
	// function removes the subscription.
	Subscribe(key string, fn func(Event)) (unsubscribe func())

	Close() error
}

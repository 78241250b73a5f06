// Package repo holds the collection repositories: thin read/write
// accessors over the key-value store, one per named collection. Every
// operation is a read-modify-write of the whole collection; two
// contexts writing at once are last-write-wins with no merge.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/entnt/dentdesk/internal/store"
)

var ErrNotFound = errors.New("record not found")

// Collection is a repository over one store key holding an ordered
// sequence of records.
type Collection[T any] struct {
	store     store.Store
	key       string
	id        func(*T) string
	setID     func(*T, string)
	normalize func(*T)
}

func (c *Collection[T]) Key() string { return c.key }

// List returns the records in insertion order as stored. An unset or
// malformed collection reads as empty, never as an error.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := c.store.Get(ctx, c.key, &records); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", c.key, err)
	}
	return records, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	records, err := c.List(ctx)
	if err != nil {
		return zero, err
	}
	for _, r := range records {
		if c.id(&r) == id {
			return r, nil
		}
	}
	return zero, ErrNotFound
}

// Add assigns a fresh unique id, appends the record, and persists the
// collection.
func (c *Collection[T]) Add(ctx context.Context, record T) (T, error) {
	var zero T
	records, err := c.List(ctx)
	if err != nil {
		return zero, err
	}

	existing := make(map[string]bool, len(records))
	for _, r := range records {
		existing[c.id(&r)] = true
	}
	c.setID(&record, freshID(existing))

	if c.normalize != nil {
		c.normalize(&record)
	}

	records = append(records, record)
	if err := c.store.Put(ctx, c.key, records); err != nil {
		return zero, fmt.Errorf("add to %s: %w", c.key, err)
	}
	return record, nil
}

// Update applies mutate to the matching record and persists the
// collection. The record id is immutable: a mutation cannot move a
// record to another identity.
func (c *Collection[T]) Update(ctx context.Context, id string, mutate func(*T)) (T, error) {
	var zero T
	records, err := c.List(ctx)
	if err != nil {
		return zero, err
	}

	for idx := range records {
		if c.id(&records[idx]) != id {
			continue
		}
		mutate(&records[idx])
		c.setID(&records[idx], id)
		if c.normalize != nil {
			c.normalize(&records[idx])
		}
		if err := c.store.Put(ctx, c.key, records); err != nil {
			return zero, fmt.Errorf("update %s: %w", c.key, err)
		}
		return records[idx], nil
	}
	return zero, ErrNotFound
}

// Remove deletes the matching record and persists the collection.
func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	records, err := c.List(ctx)
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for _, r := range records {
		if c.id(&r) == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return ErrNotFound
	}

	if err := c.store.Put(ctx, c.key, kept); err != nil {
		return fmt.Errorf("remove from %s: %w", c.key, err)
	}
	return nil
}

func freshID(existing map[string]bool) string {
	for {
		id := uuid.NewString()
		if !existing[id] {
			return id
		}
	}
}

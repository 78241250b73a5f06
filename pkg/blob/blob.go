// Package blob is the attachment content collaborator. The core keeps
// only {name, reference} on an incident; what a reference points at
// and how long it stays valid is this package's concern.
package blob

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob: reference not found")

// Storage stores opaque binary content and hands back a durable
// reference string.
type Storage interface {
	// Put stores the content and returns its reference.
	Put(ctx context.Context, name string, content io.Reader) (string, error)

	// Open returns a reader for the referenced content. The caller
	// closes it.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes the referenced content. Deleting an unknown
	// reference is not an error.
	Delete(ctx context.Context, ref string) error

	// URL returns an address a client can fetch the content from, when
	// the backend can produce one.
	URL(ctx context.Context, ref string) (string, error)
}

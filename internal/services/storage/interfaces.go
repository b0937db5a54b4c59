package storage

import (
	"context"
	"io"
)

// Backend defines the interface for evidence object storage. Keys are
// content fingerprints plus a fixed extension, so writes for identical
// content are idempotent.
type Backend interface {
	// Put stores data under key and returns a durable playable reference.
	// If the key already exists the existing reference is returned and
	// the data is not rewritten.
	Put(ctx context.Context, key string, data io.Reader) (string, error)

	// Open loads a stored object
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks whether a key is already stored
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes a stored object
	Delete(ctx context.Context, key string) error
}

package objectstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no object exists under the requested key.
var ErrNotFound = errors.New("object not found")

// Store is the object storage boundary: durable blobs addressed by
// (bucket, key). Snapshot publication writes through it and storage-event
// processing reads through it; the core does not care what backs it.
type Store interface {
	// Get returns the object's content. Returns ErrNotFound if the object
	// does not exist.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Put writes the object's content, creating or replacing it.
	Put(ctx context.Context, bucket, key string, body []byte) error
}

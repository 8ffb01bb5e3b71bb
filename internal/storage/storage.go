// Package storage abstracts the blob store holding optimized asset images.
package storage

import (
	"context"
	"io"
)

// PutInput describes an object upload.
type PutInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// Store is the blob backend. Implementations must be safe for concurrent
// use. Delete is idempotent: removing a missing key is not an error, so the
// ingestion rollback path can always run it.
type Store interface {
	// Put uploads an object and returns its public URL.
	Put(ctx context.Context, in PutInput) (string, error)

	// Delete removes an object. Missing keys are ignored.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

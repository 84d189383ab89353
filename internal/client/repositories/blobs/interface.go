package blobs

import (
	"context"
	"time"
)

// Blob is one stored image: raw bytes keyed by filename.
type Blob struct {
	Filename  string
	MimeType  string
	Data      []byte
	CreatedAt time.Time
}

// Repository is the local object store backing legacy history entries
// whose images were saved client-side.
type Repository interface {
	// Put inserts or replaces the blob for its filename.
	Put(ctx context.Context, b *Blob) error

	// Get returns the blob for a filename, or common.ErrorNotFound.
	Get(ctx context.Context, filename string) (*Blob, error)

	// Delete removes the named blobs and reports how many rows went away.
	Delete(ctx context.Context, filenames ...string) (int64, error)

	// List returns all stored filenames.
	List(ctx context.Context) ([]string, error)

	// Clear removes every blob.
	Clear(ctx context.Context) error
}

package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mkorolis/imagepoints/internal/client/repositories/blobs"
	"github.com/mkorolis/imagepoints/internal/logging"
)

// BlobCache materializes object-store bytes into temporary files so the
// terminal user has a path to open. Handles are created lazily on first
// Acquire and reference-counted: every Acquire must be paired with exactly
// one Release, and the backing file disappears when the count reaches
// zero or the underlying blob is removed.
type BlobCache struct {
	blobs blobs.Repository
	log   logging.Logger
	dir   string

	mu      sync.Mutex
	handles map[string]*blobHandle
}

type blobHandle struct {
	path string
	refs int
}

func NewBlobCache(repo blobs.Repository, log logging.Logger) (*BlobCache, error) {
	dir, err := os.MkdirTemp("", "imagepoints-*")
	if err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &BlobCache{
		blobs:   repo,
		log:     log.With("component", "blobcache"),
		dir:     dir,
		handles: make(map[string]*blobHandle),
	}, nil
}

// Acquire returns a filesystem path displaying the named blob, creating
// the temp file on first use and bumping the reference count otherwise.
func (c *BlobCache) Acquire(ctx context.Context, filename string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.handles[filename]; ok {
		h.refs++
		return h.path, nil
	}

	b, err := c.blobs.Get(ctx, filename)
	if err != nil {
		return "", err
	}

	path := filepath.Join(c.dir, filepath.Base(filename))
	if err := os.WriteFile(path, b.Data, 0o600); err != nil {
		return "", fmt.Errorf("materializing %s: %w", filename, err)
	}

	c.handles[filename] = &blobHandle{path: path, refs: 1}
	return path, nil
}

// Release drops one reference. At zero the temp file is deleted. Releasing
// an unknown filename is a no-op.
func (c *BlobCache) Release(filename string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.handles[filename]
	if !ok {
		return
	}
	h.refs--
	if h.refs > 0 {
		return
	}
	delete(c.handles, filename)
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		c.log.Warn(context.Background(), "failed to remove cached file", "path", h.path, "error", err)
	}
}

// Remove force-drops the handle regardless of reference count. Used when
// the underlying bytes are deleted.
func (c *BlobCache) Remove(filename string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.handles[filename]
	if !ok {
		return
	}
	delete(c.handles, filename)
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		c.log.Warn(context.Background(), "failed to remove cached file", "path", h.path, "error", err)
	}
}

// Len reports the number of live handles.
func (c *BlobCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}

// Close tears down the cache directory and every outstanding handle.
func (c *BlobCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handles = make(map[string]*blobHandle)
	return os.RemoveAll(c.dir)
}

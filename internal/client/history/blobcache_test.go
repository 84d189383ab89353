package history

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/mkorolis/imagepoints/internal/client/repositories/blobs"
	"github.com/mkorolis/imagepoints/internal/common"
	"github.com/mkorolis/imagepoints/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupCache(t *testing.T) (*BlobCache, blobs.Repository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE blobs (
		filename TEXT PRIMARY KEY,
		mime_type TEXT NOT NULL,
		data BLOB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)

	bl := blobs.NewSQLiteRepository(db)
	cache, err := NewBlobCache(bl, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, bl
}

func TestBlobCache_AcquireRelease(t *testing.T) {
	cache, bl := setupCache(t)
	ctx := context.Background()

	require.NoError(t, bl.Put(ctx, &blobs.Blob{Filename: "a.png", MimeType: "image/png", Data: []byte("bytes")}))

	path1, err := cache.Acquire(ctx, "a.png")
	require.NoError(t, err)
	assert.FileExists(t, path1)

	// second acquire reuses the handle
	path2, err := cache.Acquire(ctx, "a.png")
	require.NoError(t, err)
	assert.Equal(t, path1, path2)
	assert.Equal(t, 1, cache.Len())

	cache.Release("a.png")
	assert.FileExists(t, path1)

	cache.Release("a.png")
	assert.NoFileExists(t, path1)
	assert.Equal(t, 0, cache.Len())
}

func TestBlobCache_AcquireMissing(t *testing.T) {
	cache, _ := setupCache(t)

	_, err := cache.Acquire(context.Background(), "missing.png")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestBlobCache_ReleaseUnknownIsNoop(t *testing.T) {
	cache, _ := setupCache(t)
	cache.Release("never-acquired.png")
	assert.Equal(t, 0, cache.Len())
}

func TestBlobCache_RemoveIgnoresRefCount(t *testing.T) {
	cache, bl := setupCache(t)
	ctx := context.Background()

	require.NoError(t, bl.Put(ctx, &blobs.Blob{Filename: "a.png", MimeType: "image/png", Data: []byte("x")}))

	path, err := cache.Acquire(ctx, "a.png")
	require.NoError(t, err)
	_, err = cache.Acquire(ctx, "a.png")
	require.NoError(t, err)

	cache.Remove("a.png")
	assert.NoFileExists(t, path)
	assert.Equal(t, 0, cache.Len())
}

package settings

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE settings (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)

	return NewSQLiteRepository(db)
}

func TestSQLiteRepository_GetAbsentReturnsNil(t *testing.T) {
	repo := setupRepo(t)

	value, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSQLiteRepository_SetGetRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "auth_token", []byte("abc.def.ghi")))

	value, err := repo.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc.def.ghi"), value)
}

func TestSQLiteRepository_SetUpserts(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v1")))
	require.NoError(t, repo.Set(ctx, "k", []byte("v2")))

	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)
}

func TestSQLiteRepository_Delete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v")))
	require.NoError(t, repo.Delete(ctx, "k"))

	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, value)

	// deleting a missing key is not an error
	require.NoError(t, repo.Delete(ctx, "k"))
}

func TestSQLiteRepository_Clear(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "a", []byte("1")))
	require.NoError(t, repo.Set(ctx, "b", []byte("2")))
	require.NoError(t, repo.Clear(ctx))

	for _, k := range []string{"a", "b"} {
		value, err := repo.Get(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, value)
	}
}

package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mkorolis/imagepoints/internal/client/repositories/settings"
	"github.com/mkorolis/imagepoints/internal/common"
	"github.com/mkorolis/imagepoints/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupSettings(t *testing.T) settings.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE settings (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return settings.NewSQLiteRepository(db)
}

func newTestSession(t *testing.T) (*Session, settings.Repository) {
	t.Helper()
	repo := setupSettings(t)
	return NewSession(repo, logging.NewNopLogger()), repo
}

func TestSession_InitWithLaunchToken(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestSession(t)

	token := makeToken(t, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, s.Init(ctx, token))

	assert.True(t, s.IsAuthenticated())

	stored, err := repo.Get(ctx, common.SettingAuthToken)
	require.NoError(t, err)
	assert.Equal(t, token, string(stored))
}

func TestSession_InitFromStorage(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestSession(t)

	token := makeToken(t, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, repo.Set(ctx, common.SettingAuthToken, []byte(token)))

	require.NoError(t, s.Init(ctx, ""))
	assert.True(t, s.IsAuthenticated())
}

func TestSession_InitExpiredStoredTokenClears(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestSession(t)

	token := makeToken(t, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, repo.Set(ctx, common.SettingAuthToken, []byte(token)))

	err := s.Init(ctx, "")
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	assert.False(t, s.IsAuthenticated())

	stored, err := repo.Get(ctx, common.SettingAuthToken)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSession_InitNoToken(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Init(context.Background(), ""))
	assert.False(t, s.IsAuthenticated())
}

func TestSession_ClearIsIdempotentAndNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestSession(t)

	cleared := 0
	s.OnClear(func() { cleared++ })

	token := makeToken(t, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, s.Set(ctx, token))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	assert.Equal(t, 1, cleared)
	assert.False(t, s.IsAuthenticated())

	stored, err := repo.Get(ctx, common.SettingAuthToken)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSession_AuthHeaders(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)

	assert.Empty(t, s.AuthHeaders())

	token := makeToken(t, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, s.Set(ctx, token))

	headers := s.AuthHeaders()
	assert.Equal(t, "Bearer "+token, headers[common.AuthHeaderName])
}

func TestSession_RevalidateClearsExpired(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)

	token := makeToken(t, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Minute).Unix()})
	require.NoError(t, s.Set(ctx, token))
	assert.True(t, s.Revalidate(ctx))

	// Move the session clock past the expiry.
	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.False(t, s.Revalidate(ctx))
	assert.False(t, s.IsAuthenticated())
}

func TestSession_WatcherClearsExpiredToken(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)

	cleared := make(chan struct{})
	s.OnClear(func() { close(cleared) })

	token := makeToken(t, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(50 * time.Millisecond).Unix()})
	require.NoError(t, s.Set(ctx, token))

	s.StartWatcher(ctx, 10*time.Millisecond)
	defer s.Teardown()

	require.Eventually(t, func() bool {
		select {
		case <-cleared:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

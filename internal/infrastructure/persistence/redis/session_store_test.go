package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath-hub/career-path-builder/internal/domain/session"
)

// newTestCache connects to TEST_REDIS_ADDR; tests are skipped without it.
func newTestCache(t *testing.T) *Cache {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	cfg := DefaultConfig()
	cfg.Addr = addr
	cache, err := NewCache(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store := NewSessionStore(newTestCache(t), time.Minute)
	ctx := context.Background()

	sess := &session.Session{
		Token:     uuid.NewString(),
		AccountID: "1",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", got.AccountID)
	assert.True(t, sess.CreatedAt.Equal(got.CreatedAt))

	ttl, err := store.cache.TTL(ctx, SessionKey(sess.Token))
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, sess.Token))
	require.NoError(t, store.Delete(ctx, sess.Token))

	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_UnknownToken(t *testing.T) {
	store := NewSessionStore(newTestCache(t), 0)

	_, err := store.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_EmptyTokenNeedsNoServer(t *testing.T) {
	store := NewSessionStore(nil, time.Minute)

	_, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.NoError(t, store.Delete(context.Background(), ""))
	assert.Error(t, store.Save(context.Background(), &session.Session{}))
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:abc", SessionKey("abc"))
}

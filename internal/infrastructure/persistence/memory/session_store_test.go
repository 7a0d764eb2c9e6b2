package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath-hub/career-path-builder/internal/domain/session"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	store := NewSessionStore(0, nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &session.Session{Token: "t1", AccountID: "1", CreatedAt: time.Now()}))

	got, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.AccountID)

	got.AccountID = "2"
	again, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "1", again.AccountID, "Get must return a copy")

	require.NoError(t, store.Delete(ctx, "t1"))
	require.NoError(t, store.Delete(ctx, "t1"))

	_, err = store.Get(ctx, "t1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &session.Session{Token: "old", AccountID: "1", CreatedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, store.Save(ctx, &session.Session{Token: "new", AccountID: "2", CreatedAt: now.Add(-time.Minute)}))

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "2", got.AccountID)
}

func TestSessionStore_RejectsEmptyToken(t *testing.T) {
	store := NewSessionStore(0, nil)
	assert.Error(t, store.Save(context.Background(), &session.Session{AccountID: "1"}))
	assert.Error(t, store.Save(context.Background(), nil))
}

func TestSessionStore_Prune(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &session.Session{Token: "old", AccountID: "1", CreatedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, store.Save(ctx, &session.Session{Token: "new", AccountID: "2", CreatedAt: now.Add(-time.Minute)}))

	n, err := store.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.Len())

	_, err = store.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestSessionStore_PruneWithoutTTL(t *testing.T) {
	store := NewSessionStore(0, nil)
	require.NoError(t, store.Save(context.Background(), &session.Session{Token: "t", CreatedAt: time.Unix(0, 0)}))

	n, err := store.Prune(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, store.Len())
}

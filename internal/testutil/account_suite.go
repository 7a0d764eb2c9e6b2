package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
)

// FixedTime is the timestamp used by FixedClock.
var FixedTime = time.Date(2024, 3, 5, 14, 7, 9, 123456000, time.UTC)

// FixedClock always returns FixedTime.
func FixedClock() time.Time {
	return FixedTime
}

// RunAccountRepositorySuite exercises the account.Repository contract.
// newRepo must return an empty store that is isolated from other calls.
func RunAccountRepositorySuite(t *testing.T, newRepo func(t *testing.T) account.Repository) {
	t.Helper()

	t.Run("empty store loads as empty map", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		accounts, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, accounts)
		assert.Empty(t, accounts)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("create assigns sequential ids", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a, err := repo.Create(ctx, "Alice", "alice@x.com", "hash-a")
		require.NoError(t, err)
		b, err := repo.Create(ctx, "Bob", "bob@x.com", "hash-b")
		require.NoError(t, err)

		assert.Equal(t, "1", a.ID)
		assert.Equal(t, "2", b.ID)
		assert.False(t, a.CreatedAt.IsZero())

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("create normalizes email", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a, err := repo.Create(ctx, "  Alice ", "  Alice@X.com ", "hash")
		require.NoError(t, err)
		assert.Equal(t, "alice@x.com", a.Email)
		assert.Equal(t, "Alice", a.Name)

		got, err := repo.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@x.com", got.Email)
	})

	t.Run("case variant email is a duplicate", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Create(ctx, "Alice", "alice@x.com", "hash")
		require.NoError(t, err)

		_, err = repo.Create(ctx, "Impostor", "ALICE@x.COM", "other")
		assert.ErrorIs(t, err, shared.ErrDuplicateEmail)
		assert.True(t, shared.IsAlreadyExists(err))

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("find by email is case insensitive", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, "Alice", "a@b.com", "hash")
		require.NoError(t, err)

		found, err := repo.FindByEmail(ctx, " A@B.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)

		missing, err := repo.FindByEmail(ctx, "nobody@b.com")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("get by unknown id", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetByID(context.Background(), "42")
		assert.ErrorIs(t, err, shared.ErrAccountNotFound)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("only the hash is stored", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a, err := repo.Create(ctx, "Alice", "alice@x.com", "$2a$04$hashhashhash")
		require.NoError(t, err)

		accounts, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Contains(t, accounts, a.ID)
		assert.Equal(t, "$2a$04$hashhashhash", accounts[a.ID].PasswordHash)
	})

	t.Run("save overwrites the collection", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Create(ctx, "Old", "old@x.com", "hash")
		require.NoError(t, err)

		replacement := map[string]*account.Account{
			"1": {ID: "1", Name: "Carol", Email: "carol@x.com", PasswordHash: "h1", CreatedAt: FixedTime},
			"2": {ID: "2", Name: "Dave", Email: "dave@x.com", PasswordHash: "h2", CreatedAt: FixedTime.Add(time.Hour)},
		}
		require.NoError(t, repo.Save(ctx, replacement))

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, "Carol", loaded["1"].Name)
		assert.Equal(t, "dave@x.com", loaded["2"].Email)
		assert.True(t, FixedTime.Equal(loaded["1"].CreatedAt), "got %s", loaded["1"].CreatedAt)

		old, err := repo.FindByEmail(ctx, "old@x.com")
		require.NoError(t, err)
		assert.Nil(t, old)

		next, err := repo.Create(ctx, "Eve", "eve@x.com", "h3")
		require.NoError(t, err)
		assert.Equal(t, "3", next.ID)
	})

	t.Run("create rejects empty fields", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(context.Background(), "", "x@y.com", "hash")
		assert.True(t, shared.IsValidation(err))
	})
}

package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
	"github.com/careerpath-hub/career-path-builder/internal/testutil"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAccountRepository_Conformance(t *testing.T) {
	testutil.RunAccountRepositorySuite(t, func(t *testing.T) account.Repository {
		return NewAccountRepository(newTestDB(t), nil)
	})
}

func TestProgressRepository_Conformance(t *testing.T) {
	testutil.RunProgressRepositorySuite(t, func(t *testing.T) progress.Repository {
		return NewProgressRepository(newTestDB(t), nil)
	})
}

func TestOpenDB_FileIsReopenable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "careerpath.db")

	db, err := OpenDB(ctx, path)
	require.NoError(t, err)

	repo := NewAccountRepository(db, testutil.FixedClock)
	_, err = repo.Create(ctx, "Alice", "alice@x.com", "hash")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	a, err := NewAccountRepository(db, nil).GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", a.Email)
	assert.True(t, testutil.FixedTime.Equal(a.CreatedAt))
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, Migrate(context.Background(), db))
}

func TestAccountRepository_UniqueIndexCatchesRawDuplicates(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, testutil.FixedClock)

	err := repo.Save(context.Background(), map[string]*account.Account{
		"1": {ID: "1", Name: "A", Email: "dup@x.com", PasswordHash: "h", CreatedAt: testutil.FixedTime},
		"2": {ID: "2", Name: "B", Email: "DUP@x.com", PasswordHash: "h", CreatedAt: testutil.FixedTime},
	})
	assert.Error(t, err)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "failed save must roll back")
}

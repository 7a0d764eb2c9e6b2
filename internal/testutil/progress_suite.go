package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
)

// RunProgressRepositorySuite exercises the progress.Repository contract.
// Account ids are not required to exist in any account store.
func RunProgressRepositorySuite(t *testing.T, newRepo func(t *testing.T) progress.Repository) {
	t.Helper()

	t.Run("account without progress gets an empty map", func(t *testing.T) {
		repo := newRepo(t)

		ap, err := repo.GetForAccount(context.Background(), "1")
		require.NoError(t, err)
		assert.NotNil(t, ap)
		assert.Empty(t, ap)
	})

	t.Run("last write wins", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Set(ctx, "1", "web_developer", "HTML", true))
		require.NoError(t, repo.Set(ctx, "1", "web_developer", "HTML", false))

		ap, err := repo.GetForAccount(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, progress.AccountProgress{
			"web_developer": {"HTML": false},
		}, ap)

		require.NoError(t, repo.Set(ctx, "1", "web_developer", "HTML", true))
		ap, err = repo.GetForAccount(ctx, "1")
		require.NoError(t, err)
		assert.True(t, ap["web_developer"]["HTML"])
	})

	t.Run("accounts are isolated", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Set(ctx, "1", "web_developer", "HTML", true))
		require.NoError(t, repo.Set(ctx, "1", "data_scientist", "Statistics", true))
		require.NoError(t, repo.Set(ctx, "2", "web_developer", "CSS", true))

		one, err := repo.GetForAccount(ctx, "1")
		require.NoError(t, err)
		assert.Len(t, one, 2)
		assert.NotContains(t, one["web_developer"], "CSS")

		two, err := repo.GetForAccount(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, progress.AccountProgress{"web_developer": {"CSS": true}}, two)
	})

	t.Run("orphan keys are stored", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Set(ctx, "1", "astronaut", "Spacewalk", true))
		require.NoError(t, repo.Set(ctx, "1", "web_developer", "COBOL", true))

		ap, err := repo.GetForAccount(ctx, "1")
		require.NoError(t, err)
		assert.True(t, ap["astronaut"]["Spacewalk"])
		assert.True(t, ap["web_developer"]["COBOL"])
	})

	t.Run("save overwrites and load returns everything", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Set(ctx, "9", "web_developer", "HTML", true))

		r := progress.Record{
			"1": {"web_developer": {"HTML": true, "CSS": false}},
			"2": {"devops_engineer": {"Docker": true}},
		}
		require.NoError(t, repo.Save(ctx, r))

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, r, loaded)
	})

	t.Run("returned maps are copies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Set(ctx, "1", "web_developer", "HTML", false))

		ap, err := repo.GetForAccount(ctx, "1")
		require.NoError(t, err)
		ap["web_developer"]["HTML"] = true

		again, err := repo.GetForAccount(ctx, "1")
		require.NoError(t, err)
		assert.False(t, again["web_developer"]["HTML"])
	})
}

package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath-hub/career-path-builder/internal/domain/catalog"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/persistence/jsonfile"
	"github.com/careerpath-hub/career-path-builder/internal/testutil"
)

type stores struct {
	accounts *jsonfile.AccountStore
	progress *jsonfile.ProgressStore
}

func newStores(t *testing.T) stores {
	t.Helper()
	dir := t.TempDir()
	s := stores{
		accounts: jsonfile.NewAccountStore(dir, jsonfile.WithClock(testutil.FixedClock)),
		progress: jsonfile.NewProgressStore(dir),
	}
	_, err := s.accounts.Create(context.Background(), "Alice", "alice@x.com", "hash")
	require.NoError(t, err)
	return s
}

func TestGetDashboard(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	require.NoError(t, s.progress.Set(ctx, "1", catalog.DataScientist, "Python Basics", true))
	require.NoError(t, s.progress.Set(ctx, "1", catalog.DataScientist, "Deep Learning", true))

	dto, err := NewGetDashboardHandler(catalog.Default(), s.accounts, s.progress).Handle(ctx, GetDashboardQuery{AccountID: "1"})
	require.NoError(t, err)

	assert.Equal(t, "Alice", dto.AccountName)
	require.Len(t, dto.Careers, 5)
	assert.Equal(t, catalog.WebDeveloper, dto.Careers[0].ID)
	assert.Zero(t, dto.Careers[0].Completed)
	assert.Equal(t, catalog.DataScientist, dto.Careers[1].ID)
	assert.Equal(t, 2, dto.Careers[1].Completed)
	assert.Equal(t, 8, dto.Careers[1].Total)
	assert.Equal(t, 25, dto.Careers[1].Percent)
}

func TestGetCareerDetail(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	require.NoError(t, s.progress.Set(ctx, "1", catalog.WebDeveloper, "HTML", true))
	require.NoError(t, s.progress.Set(ctx, "1", catalog.WebDeveloper, "CSS", false))

	h := NewGetCareerDetailHandler(catalog.Default(), s.progress)

	dto, err := h.Handle(ctx, GetCareerDetailQuery{AccountID: "1", CareerID: catalog.WebDeveloper})
	require.NoError(t, err)
	assert.Equal(t, "Web Developer", dto.Title)
	require.Len(t, dto.Skills, 8)
	assert.Equal(t, "HTML", dto.Skills[0].Name)
	assert.True(t, dto.Skills[0].Completed)
	assert.False(t, dto.Skills[1].Completed)
	assert.Equal(t, "Beginner", dto.Skills[0].Level)
	assert.Equal(t, 1, dto.Completed)
	assert.Equal(t, 12, dto.Percent)

	_, err = h.Handle(ctx, GetCareerDetailQuery{AccountID: "1", CareerID: "astronaut"})
	assert.ErrorIs(t, err, shared.ErrCareerNotFound)
}

func TestGetProfile_Scenario(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	require.NoError(t, s.progress.Set(ctx, "1", catalog.WebDeveloper, "HTML", true))

	clock := func() time.Time { return testutil.FixedTime.AddDate(0, 0, 3) }
	dto, err := NewGetProfileHandler(catalog.Default(), s.accounts, s.progress, clock).Handle(ctx, GetProfileQuery{AccountID: "1"})
	require.NoError(t, err)

	assert.Equal(t, "Alice", dto.Name)
	assert.Equal(t, "alice@x.com", dto.Email)
	assert.Equal(t, "March 5, 2024", dto.MemberSince)
	assert.Equal(t, 3, dto.DaysMember)
	assert.Equal(t, 8, dto.TotalSkills)
	assert.Equal(t, 1, dto.CompletedSkills)
}

func TestGetProfile_UnknownCareerExcluded(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	require.NoError(t, s.progress.Set(ctx, "1", "astronaut", "Spacewalk", true))
	require.NoError(t, s.progress.Set(ctx, "1", catalog.DevOpsEngineer, "Docker", true))

	dto, err := NewGetProfileHandler(catalog.Default(), s.accounts, s.progress, nil).Handle(ctx, GetProfileQuery{AccountID: "1"})
	require.NoError(t, err)

	assert.Equal(t, 8, dto.TotalSkills)
	assert.Equal(t, 1, dto.CompletedSkills)
	require.Len(t, dto.Careers, 1)
	assert.Equal(t, catalog.DevOpsEngineer, dto.Careers[0].CareerID)
}

func TestGetProfile_UnknownAccount(t *testing.T) {
	s := newStores(t)

	_, err := NewGetProfileHandler(catalog.Default(), s.accounts, s.progress, nil).Handle(context.Background(), GetProfileQuery{AccountID: "7"})
	assert.ErrorIs(t, err, shared.ErrAccountNotFound)
}

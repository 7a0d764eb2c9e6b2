package query

import (
	"context"
	"fmt"
	"time"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/catalog"
	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// Account details with aggregate completion over the careers the account
// has started.
// ══════════════════════════════════════════════════════════════════════════════

// GetProfileQuery identifies the account.
type GetProfileQuery struct {
	AccountID string
}

// ProfileDTO is the profile page model.
type ProfileDTO struct {
	AccountID   string    `json:"account_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	MemberSince string    `json:"member_since"`
	DaysMember  int       `json:"days_member"`

	TotalSkills     int                    `json:"total_skills"`
	CompletedSkills int                    `json:"completed_skills"`
	Percent         int                    `json:"percent"`
	Careers         []progress.CareerStats `json:"careers"`
}

// GetProfileHandler handles GetProfileQuery.
type GetProfileHandler struct {
	catalog  *catalog.Catalog
	accounts account.Repository
	progress progress.Repository
	clock    timeutil.Clock
}

// NewGetProfileHandler creates a new GetProfileHandler. A nil clock uses
// timeutil.Now.
func NewGetProfileHandler(cat *catalog.Catalog, accounts account.Repository, prog progress.Repository, clock timeutil.Clock) *GetProfileHandler {
	if clock == nil {
		clock = timeutil.Now
	}
	return &GetProfileHandler{catalog: cat, accounts: accounts, progress: prog, clock: clock}
}

// Handle never fails on progress that references unknown careers or skills.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*ProfileDTO, error) {
	if q.AccountID == "" {
		return nil, shared.NewValidationError("profile", "account id")
	}

	acc, err := h.accounts.GetByID(ctx, q.AccountID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	ap, err := h.progress.GetForAccount(ctx, q.AccountID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	st := progress.ComputeStats(h.catalog, ap)
	return &ProfileDTO{
		AccountID:       acc.ID,
		Name:            acc.Name,
		Email:           acc.Email,
		CreatedAt:       acc.CreatedAt,
		MemberSince:     timeutil.FormatHuman(acc.CreatedAt),
		DaysMember:      timeutil.DaysSince(acc.CreatedAt, h.clock()),
		TotalSkills:     st.TotalSkills,
		CompletedSkills: st.CompletedSkills,
		Percent:         st.Percent,
		Careers:         st.Careers,
	}, nil
}

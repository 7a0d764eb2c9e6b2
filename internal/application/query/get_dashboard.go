// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/catalog"
	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// Lists every career path with the account's completion for each.
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery identifies the account.
type GetDashboardQuery struct {
	AccountID string
}

// CareerSummaryDTO is one dashboard card.
type CareerSummaryDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Total       int    `json:"total"`
	Completed   int    `json:"completed"`
	Percent     int    `json:"percent"`
}

// DashboardDTO is the dashboard page model.
type DashboardDTO struct {
	AccountName string             `json:"account_name"`
	Careers     []CareerSummaryDTO `json:"careers"`
}

// GetDashboardHandler handles GetDashboardQuery.
type GetDashboardHandler struct {
	catalog  *catalog.Catalog
	accounts account.Repository
	progress progress.Repository
}

// NewGetDashboardHandler creates a new GetDashboardHandler.
func NewGetDashboardHandler(cat *catalog.Catalog, accounts account.Repository, prog progress.Repository) *GetDashboardHandler {
	return &GetDashboardHandler{catalog: cat, accounts: accounts, progress: prog}
}

// Handle builds the dashboard in catalog order.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*DashboardDTO, error) {
	if q.AccountID == "" {
		return nil, shared.NewValidationError("dashboard", "account id")
	}

	acc, err := h.accounts.GetByID(ctx, q.AccountID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	ap, err := h.progress.GetForAccount(ctx, q.AccountID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	paths := h.catalog.All()
	dto := &DashboardDTO{
		AccountName: acc.Name,
		Careers:     make([]CareerSummaryDTO, 0, len(paths)),
	}
	for _, path := range paths {
		cs := progress.Summarize(path, ap[path.ID])
		dto.Careers = append(dto.Careers, CareerSummaryDTO{
			ID:          path.ID,
			Title:       path.Title,
			Description: path.Description,
			Total:       cs.Total,
			Completed:   cs.Completed,
			Percent:     cs.Percent,
		})
	}
	return dto, nil
}

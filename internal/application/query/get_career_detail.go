package query

import (
	"context"
	"fmt"

	"github.com/careerpath-hub/career-path-builder/internal/domain/catalog"
	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CAREER DETAIL QUERY
// One career path with a completion flag per skill.
// ══════════════════════════════════════════════════════════════════════════════

// GetCareerDetailQuery identifies the account and the career.
type GetCareerDetailQuery struct {
	AccountID string
	CareerID  string
}

// SkillDTO is one row of the roadmap.
type SkillDTO struct {
	Name      string   `json:"name"`
	Level     string   `json:"level"`
	Duration  string   `json:"duration"`
	Resources []string `json:"resources"`
	Completed bool     `json:"completed"`
}

// CareerDetailDTO is the career page model.
type CareerDetailDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Skills      []SkillDTO `json:"skills"`
	Completed   int        `json:"completed"`
	Total       int        `json:"total"`
	Percent     int        `json:"percent"`
}

// GetCareerDetailHandler handles GetCareerDetailQuery.
type GetCareerDetailHandler struct {
	catalog  *catalog.Catalog
	progress progress.Repository
}

// NewGetCareerDetailHandler creates a new GetCareerDetailHandler.
func NewGetCareerDetailHandler(cat *catalog.Catalog, prog progress.Repository) *GetCareerDetailHandler {
	return &GetCareerDetailHandler{catalog: cat, progress: prog}
}

// Handle returns shared.ErrCareerNotFound for ids missing from the catalog.
func (h *GetCareerDetailHandler) Handle(ctx context.Context, q GetCareerDetailQuery) (*CareerDetailDTO, error) {
	if q.AccountID == "" {
		return nil, shared.NewValidationError("career", "account id")
	}

	path, ok := h.catalog.Get(q.CareerID)
	if !ok {
		return nil, shared.ErrCareerNotFound
	}

	ap, err := h.progress.GetForAccount(ctx, q.AccountID)
	if err != nil {
		return nil, fmt.Errorf("career detail: %w", err)
	}
	done := ap[path.ID]

	dto := &CareerDetailDTO{
		ID:          path.ID,
		Title:       path.Title,
		Description: path.Description,
		Skills:      make([]SkillDTO, 0, len(path.Skills)),
	}
	for _, s := range path.Skills {
		dto.Skills = append(dto.Skills, SkillDTO{
			Name:      s.Name,
			Level:     s.Level.String(),
			Duration:  s.Duration,
			Resources: s.Resources,
			Completed: done[s.Name],
		})
	}

	cs := progress.Summarize(path, done)
	dto.Completed, dto.Total, dto.Percent = cs.Completed, cs.Total, cs.Percent
	return dto, nil
}

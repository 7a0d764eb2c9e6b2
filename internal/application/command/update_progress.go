package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROGRESS COMMAND
// Marks one skill of one career as completed or not. Career and skill are
// not checked against the catalog.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProgressCommand contains one completion flag.
type UpdateProgressCommand struct {
	AccountID string
	CareerID  string
	SkillName string
	Completed bool
}

// Validate requires the three keys to be present.
func (c UpdateProgressCommand) Validate() error {
	switch {
	case strings.TrimSpace(c.AccountID) == "":
		return shared.NewValidationError("progress", "account id")
	case strings.TrimSpace(c.CareerID) == "":
		return shared.NewValidationError("progress", "career_id")
	case strings.TrimSpace(c.SkillName) == "":
		return shared.NewValidationError("progress", "skill_name")
	}
	return nil
}

// ParseCompleted maps the form value to a flag: only "true" is true.
func ParseCompleted(v string) bool {
	return v == "true"
}

// UpdateProgressHandler handles the UpdateProgressCommand.
type UpdateProgressHandler struct {
	progress progress.Repository
	log      *logger.Logger
}

// NewUpdateProgressHandler creates a new UpdateProgressHandler.
func NewUpdateProgressHandler(repo progress.Repository, log *logger.Logger) *UpdateProgressHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UpdateProgressHandler{progress: repo, log: log.With(logger.Component("command.progress"))}
}

// Handle writes the flag through to the store.
func (h *UpdateProgressHandler) Handle(ctx context.Context, cmd UpdateProgressCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.progress.Set(ctx, cmd.AccountID, cmd.CareerID, cmd.SkillName, cmd.Completed); err != nil {
		return fmt.Errorf("update_progress: %w", err)
	}
	h.log.Debug("progress updated",
		logger.AccountID(cmd.AccountID),
		logger.CareerID(cmd.CareerID),
		logger.SkillName(cmd.SkillName),
		logger.Bool("completed", cmd.Completed))
	return nil
}

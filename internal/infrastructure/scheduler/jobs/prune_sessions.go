// Package jobs holds the housekeeping jobs registered with the scheduler.
package jobs

import (
	"context"
	"fmt"

	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

// PruneSessionsJobName identifies the session janitor.
const PruneSessionsJobName = "prune_sessions"

// SessionPruner drops expired sessions and reports how many it removed.
type SessionPruner interface {
	Prune(ctx context.Context) (int, error)
}

// PruneSessionsJob keeps the in-memory session store from growing with
// sessions nobody comes back to.
type PruneSessionsJob struct {
	store SessionPruner
	log   *logger.Logger
}

// NewPruneSessionsJob creates the job.
func NewPruneSessionsJob(store SessionPruner, log *logger.Logger) *PruneSessionsJob {
	if log == nil {
		log = logger.Nop()
	}
	return &PruneSessionsJob{store: store, log: log.With(logger.Component("job.prune_sessions"))}
}

// Name implements scheduler.Job.
func (j *PruneSessionsJob) Name() string { return PruneSessionsJobName }

// Run implements scheduler.Job.
func (j *PruneSessionsJob) Run(ctx context.Context) error {
	n, err := j.store.Prune(ctx)
	if err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}
	if n > 0 {
		j.log.Info("expired sessions removed", logger.Int("count", n))
	}
	return nil
}

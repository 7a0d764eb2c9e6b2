package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
	"github.com/careerpath-hub/career-path-builder/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progress.Repository for PostgreSQL.
type ProgressRepository struct {
	conn  *Connection
	clock timeutil.Clock
	mu    sync.Mutex
}

var _ progress.Repository = (*ProgressRepository)(nil)

// NewProgressRepository creates a new ProgressRepository. A nil clock uses
// timeutil.Now.
func NewProgressRepository(conn *Connection, clock timeutil.Clock) *ProgressRepository {
	if clock == nil {
		clock = timeutil.Now
	}
	return &ProgressRepository{conn: conn, clock: clock}
}

// Load returns the full record.
func (r *ProgressRepository) Load(ctx context.Context) (progress.Record, error) {
	rows, err := r.conn.Query(ctx, `SELECT account_id, career_id, skill_name, completed FROM progress`)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	rec := make(progress.Record)
	for rows.Next() {
		var accountID, careerID, skill string
		var completed bool
		if err := rows.Scan(&accountID, &careerID, &skill, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		rec.Set(accountID, careerID, skill, completed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress: %w", err)
	}
	return rec, nil
}

// Save replaces the whole table with the given record.
func (r *ProgressRepository) Save(ctx context.Context, record progress.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM progress`); err != nil {
			return fmt.Errorf("failed to clear progress: %w", err)
		}

		batch := &pgx.Batch{}
		for accountID, careers := range record {
			for careerID, skills := range careers {
				for skill, completed := range skills {
					batch.Queue(upsertProgressSQL, accountID, careerID, skill, completed, now)
				}
			}
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert progress: %w", err)
		}
		return nil
	})
}

const upsertProgressSQL = `
	INSERT INTO progress (account_id, career_id, skill_name, completed, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (account_id, career_id, skill_name)
	DO UPDATE SET completed = EXCLUDED.completed, updated_at = EXCLUDED.updated_at
`

// Set upserts one completion flag.
func (r *ProgressRepository) Set(ctx context.Context, accountID, careerID, skillName string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.conn.Exec(ctx, upsertProgressSQL, accountID, careerID, skillName, completed, r.clock()); err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

// GetForAccount returns an empty map for accounts without progress.
func (r *ProgressRepository) GetForAccount(ctx context.Context, accountID string) (progress.AccountProgress, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT career_id, skill_name, completed FROM progress WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress for %s: %w", accountID, err)
	}
	defer rows.Close()

	out := make(progress.AccountProgress)
	for rows.Next() {
		var careerID, skill string
		var completed bool
		if err := rows.Scan(&careerID, &skill, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		if out[careerID] == nil {
			out[careerID] = make(progress.CareerProgress)
		}
		out[careerID][skill] = completed
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress: %w", err)
	}
	return out, nil
}

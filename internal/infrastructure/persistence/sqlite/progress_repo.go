package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
	"github.com/careerpath-hub/career-path-builder/pkg/timeutil"
)

// ProgressRepository stores one row per (account, career, skill).
type ProgressRepository struct {
	db    *sql.DB
	clock timeutil.Clock
	mu    sync.Mutex
}

var _ progress.Repository = (*ProgressRepository)(nil)

// NewProgressRepository creates a repository. A nil clock uses timeutil.Now.
func NewProgressRepository(db *sql.DB, clock timeutil.Clock) *ProgressRepository {
	if clock == nil {
		clock = timeutil.Now
	}
	return &ProgressRepository{db: db, clock: clock}
}

// Load returns the full record.
func (r *ProgressRepository) Load(ctx context.Context) (progress.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT account_id, career_id, skill_name, completed FROM progress`)
	if err != nil {
		return nil, fmt.Errorf("querying progress: %w", err)
	}
	defer rows.Close()

	rec := make(progress.Record)
	for rows.Next() {
		var accountID, careerID, skill string
		var completed bool
		if err := rows.Scan(&accountID, &careerID, &skill, &completed); err != nil {
			return nil, fmt.Errorf("scanning progress: %w", err)
		}
		rec.Set(accountID, careerID, skill, completed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress: %w", err)
	}
	return rec, nil
}

// Save replaces the whole table with the given record.
func (r *ProgressRepository) Save(ctx context.Context, record progress.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := timeutil.FormatISOTime(r.clock())
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM progress`); err != nil {
			return fmt.Errorf("clearing progress: %w", err)
		}
		for accountID, careers := range record {
			for careerID, skills := range careers {
				for skill, completed := range skills {
					if err := upsertProgress(ctx, tx, accountID, careerID, skill, completed, now); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// Set upserts one completion flag.
func (r *ProgressRepository) Set(ctx context.Context, accountID, careerID, skillName string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return upsertProgress(ctx, r.db, accountID, careerID, skillName, completed, timeutil.FormatISOTime(r.clock()))
}

// GetForAccount returns an empty map for accounts without progress.
func (r *ProgressRepository) GetForAccount(ctx context.Context, accountID string) (progress.AccountProgress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT career_id, skill_name, completed FROM progress WHERE account_id = ?`, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying progress for %s: %w", accountID, err)
	}
	defer rows.Close()

	rec := make(progress.Record)
	for rows.Next() {
		var careerID, skill string
		var completed bool
		if err := rows.Scan(&careerID, &skill, &completed); err != nil {
			return nil, fmt.Errorf("scanning progress: %w", err)
		}
		rec.Set(accountID, careerID, skill, completed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress: %w", err)
	}
	return rec.ForAccount(accountID), nil
}

func upsertProgress(ctx context.Context, q DBTX, accountID, careerID, skill string, completed bool, now string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO progress (account_id, career_id, skill_name, completed, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (account_id, career_id, skill_name)
		DO UPDATE SET completed = excluded.completed, updated_at = excluded.updated_at`,
		accountID, careerID, skill, completed, now)
	if err != nil {
		return fmt.Errorf("upserting progress: %w", err)
	}
	return nil
}

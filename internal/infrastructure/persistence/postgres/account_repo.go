package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AccountRepository implements account.Repository for PostgreSQL.
type AccountRepository struct {
	conn  *Connection
	clock timeutil.Clock
	mu    sync.Mutex
}

var _ account.Repository = (*AccountRepository)(nil)

// NewAccountRepository creates a new AccountRepository. A nil clock uses
// timeutil.Now.
func NewAccountRepository(conn *Connection, clock timeutil.Clock) *AccountRepository {
	if clock == nil {
		clock = timeutil.Now
	}
	return &AccountRepository{conn: conn, clock: clock}
}

const accountColumns = `id, name, email, password_hash, created_at`

// Load returns all accounts keyed by id.
func (r *AccountRepository) Load(ctx context.Context) (map[string]*account.Account, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+accountColumns+` FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]*account.Account)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// Save replaces every stored account with the given collection.
func (r *AccountRepository) Save(ctx context.Context, accounts map[string]*account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM accounts`); err != nil {
			return fmt.Errorf("failed to clear accounts: %w", err)
		}
		for _, id := range account.SortedIDs(accounts) {
			a := accounts[id]
			if a == nil {
				continue
			}
			if err := insertAccount(ctx, tx, id, a); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByEmail returns nil when no account matches.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	return findByEmail(ctx, r.conn, email)
}

// GetByID returns shared.ErrAccountNotFound for unknown ids.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	a, err := scanAccount(row)
	if IsNoRows(err) {
		return nil, shared.ErrAccountNotFound
	}
	return a, err
}

// Create inserts a new account with id count+1. The table is locked for
// the duration of the transaction so concurrent processes cannot hand out
// the same id.
func (r *AccountRepository) Create(ctx context.Context, name, email, passwordHash string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var created *account.Account
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `LOCK TABLE accounts IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("failed to lock accounts: %w", err)
		}

		existing, err := findByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.ErrDuplicateEmail
		}

		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
			return fmt.Errorf("failed to count accounts: %w", err)
		}

		a, err := account.New(account.NextID(count), name, email, passwordHash, r.clock())
		if err != nil {
			return err
		}
		if err := insertAccount(ctx, tx, a.ID, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Count returns the number of stored accounts.
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func findByEmail(ctx context.Context, q Querier, email string) (*account.Account, error) {
	row := q.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE lower(email) = $1
		ORDER BY length(id), id
		LIMIT 1
	`, account.NormalizeEmail(email))

	a, err := scanAccount(row)
	if IsNoRows(err) {
		return nil, nil
	}
	return a, err
}

func insertAccount(ctx context.Context, q Querier, id string, a *account.Account) error {
	_, err := q.Exec(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, a.Name, a.Email, a.PasswordHash, a.CreatedAt.UTC())
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert account %s: %w", id, err)
	}
	return nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var (
		a         account.Account
		createdAt time.Time
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &createdAt); err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	a.CreatedAt = createdAt.UTC()
	return &a, nil
}

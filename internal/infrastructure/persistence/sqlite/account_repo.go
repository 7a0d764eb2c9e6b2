package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/pkg/timeutil"
)

// AccountRepository stores accounts in the accounts table.
type AccountRepository struct {
	db    *sql.DB
	clock timeutil.Clock
	mu    sync.Mutex
}

var _ account.Repository = (*AccountRepository)(nil)

// NewAccountRepository creates a repository. A nil clock uses timeutil.Now.
func NewAccountRepository(db *sql.DB, clock timeutil.Clock) *AccountRepository {
	if clock == nil {
		clock = timeutil.Now
	}
	return &AccountRepository{db: db, clock: clock}
}

const selectAccounts = `SELECT id, name, email, password_hash, created_at FROM accounts`

// Load returns all accounts keyed by id.
func (r *AccountRepository) Load(ctx context.Context) (map[string]*account.Account, error) {
	rows, err := r.db.QueryContext(ctx, selectAccounts)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
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
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}
	return accounts, nil
}

// Save replaces every stored account with the given collection.
func (r *AccountRepository) Save(ctx context.Context, accounts map[string]*account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
			return fmt.Errorf("clearing accounts: %w", err)
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
	return findByEmail(ctx, r.db, email)
}

// GetByID returns shared.ErrAccountNotFound for unknown ids.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	row := r.db.QueryRowContext(ctx, selectAccounts+` WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrAccountNotFound
	}
	return a, err
}

// Create inserts a new account with id count+1.
func (r *AccountRepository) Create(ctx context.Context, name, email, passwordHash string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var created *account.Account
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		existing, err := findByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.ErrDuplicateEmail
		}

		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
			return fmt.Errorf("counting accounts: %w", err)
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
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting accounts: %w", err)
	}
	return n, nil
}

func findByEmail(ctx context.Context, q DBTX, email string) (*account.Account, error) {
	row := q.QueryRowContext(ctx,
		selectAccounts+` WHERE lower(email) = ? ORDER BY CAST(id AS INTEGER), id LIMIT 1`,
		account.NormalizeEmail(email))
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func insertAccount(ctx context.Context, q DBTX, id string, a *account.Account) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO accounts (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, a.Name, a.Email, a.PasswordHash, timeutil.FormatISOTime(a.CreatedAt))
	if isUniqueViolation(err) {
		return shared.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("inserting account %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*account.Account, error) {
	var (
		a         account.Account
		createdAt string
	)
	if err := s.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning account: %w", err)
	}
	t, err := timeutil.ParseISO(createdAt)
	if err != nil {
		return nil, fmt.Errorf("account %s created_at: %w", a.ID, err)
	}
	a.CreatedAt = t
	return &a, nil
}

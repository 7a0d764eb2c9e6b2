package jsonfile

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
	"github.com/careerpath-hub/career-path-builder/pkg/timeutil"
)

// accountRecord is the on-disk shape of one account.
type accountRecord struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CreatedAt string `json:"created_at"`
}

// AccountStore keeps accounts in a single JSON object keyed by id.
type AccountStore struct {
	path string
	opts options

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

var _ account.Repository = (*AccountStore)(nil)

// NewAccountStore creates a store backed by dataDir/users.json.
func NewAccountStore(dataDir string, opts ...Option) *AccountStore {
	return NewAccountStoreAt(filepath.Join(dataDir, AccountsFile), opts...)
}

// NewAccountStoreAt creates a store backed by the given file.
func NewAccountStoreAt(path string, opts ...Option) *AccountStore {
	o := buildOptions(opts)
	o.log = o.log.With(logger.Component("jsonfile.accounts"))
	return &AccountStore{path: path, opts: o}
}

// Path returns the backing file.
func (s *AccountStore) Path() string {
	return s.path
}

// Load returns all accounts. A missing or corrupt file yields an empty map.
func (s *AccountStore) Load(ctx context.Context) (map[string]*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *AccountStore) load() (map[string]*account.Account, error) {
	var raw map[string]accountRecord
	if _, err := readJSON(s.path, &raw); err != nil {
		if !isCorrupt(err) {
			return nil, err
		}
		s.opts.log.Warn("accounts file is corrupt, treating as empty",
			logger.String("path", s.path), logger.Err(err))
		raw = nil
	}

	accounts := make(map[string]*account.Account, len(raw))
	for id, rec := range raw {
		createdAt, err := timeutil.ParseISO(rec.CreatedAt)
		if err != nil {
			s.opts.log.Warn("account has unreadable created_at",
				logger.AccountID(id), logger.Err(err))
		}
		accounts[id] = &account.Account{
			ID:           id,
			Name:         rec.Name,
			Email:        rec.Email,
			PasswordHash: rec.Password,
			CreatedAt:    createdAt,
		}
	}
	return accounts, nil
}

// Save overwrites the file with the given accounts.
func (s *AccountStore) Save(ctx context.Context, accounts map[string]*account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(accounts)
}

func (s *AccountStore) save(accounts map[string]*account.Account) error {
	raw := make(map[string]accountRecord, len(accounts))
	for id, a := range accounts {
		if a == nil {
			continue
		}
		rec := accountRecord{
			Name:     a.Name,
			Email:    a.Email,
			Password: a.PasswordHash,
		}
		if !a.CreatedAt.IsZero() {
			rec.CreatedAt = timeutil.FormatISOTime(a.CreatedAt)
		}
		raw[id] = rec
	}
	return writeJSON(s.path, raw)
}

// FindByEmail returns the first account in id order whose email matches
// case-insensitively, or nil.
func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	accounts, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return account.FindByEmailIn(accounts, email), nil
}

// GetByID returns shared.ErrAccountNotFound for unknown ids.
func (s *AccountStore) GetByID(ctx context.Context, id string) (*account.Account, error) {
	accounts, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	a, ok := accounts[id]
	if !ok || a == nil {
		return nil, shared.ErrAccountNotFound
	}
	return a, nil
}

// Create assigns the next id, stamps the creation time and persists.
func (s *AccountStore) Create(ctx context.Context, name, email, passwordHash string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return nil, err
	}
	if account.FindByEmailIn(accounts, email) != nil {
		return nil, shared.ErrDuplicateEmail
	}

	a, err := account.New(account.NextID(len(accounts)), name, email, passwordHash, s.opts.clock())
	if err != nil {
		return nil, err
	}
	if _, taken := accounts[a.ID]; taken {
		return nil, shared.WrapError("account", "Create", shared.ErrAlreadyExists,
			"account id "+a.ID+" already in use", nil)
	}

	accounts[a.ID] = a
	if err := s.save(accounts); err != nil {
		return nil, err
	}
	s.opts.log.Info("account created", logger.AccountID(a.ID))
	return a, nil
}

// Count returns the number of stored accounts.
func (s *AccountStore) Count(ctx context.Context) (int, error) {
	accounts, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}

package account

import (
	"context"
	"sort"
	"strconv"
)

// Repository persists accounts. Implementations live in
// infrastructure/persistence and must serialize their own writes.
type Repository interface {
	// Load returns all known accounts keyed by id. A store with no data, or
	// with data that cannot be parsed, yields an empty map.
	Load(ctx context.Context) (map[string]*Account, error)

	// Save overwrites the whole collection with the given accounts.
	Save(ctx context.Context, accounts map[string]*Account) error

	// FindByEmail returns the first account (by id order) whose email matches
	// case-insensitively, or nil when there is none.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// GetByID returns shared.ErrAccountNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*Account, error)

	// Create stores a new account with id count+1.
	// Returns shared.ErrDuplicateEmail if the email is already registered.
	Create(ctx context.Context, name, email, passwordHash string) (*Account, error)

	// Count returns the number of stored accounts.
	Count(ctx context.Context) (int, error)
}

// NextID returns the id assigned to the next account of a collection that
// currently holds count accounts.
//
// Not collision-safe once accounts can be deleted; there is no delete path.
func NextID(count int) string {
	return strconv.Itoa(count + 1)
}

// SortedIDs returns the ids of the collection in stored order: numeric ids
// ascending, non-numeric ids afterwards in lexical order.
func SortedIDs(accounts map[string]*Account) []string {
	ids := make([]string, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
	return ids
}

// FindByEmailIn searches a loaded collection in stored order.
func FindByEmailIn(accounts map[string]*Account, email string) *Account {
	want := NormalizeEmail(email)
	for _, id := range SortedIDs(accounts) {
		if a := accounts[id]; a != nil && NormalizeEmail(a.Email) == want {
			return a
		}
	}
	return nil
}

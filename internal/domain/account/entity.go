// Package account contains the registered user model and the contract of
// the store that persists it. No external dependencies.
package account

import (
	"strings"
	"time"

	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
)

// Account is a registered user's durable identity record.
// Accounts are created on registration and never mutated afterwards.
type Account struct {
	// ID is a decimal counter assigned at creation ("1", "2", ...).
	ID string

	// Name is the display name given at registration.
	Name string

	// Email is stored trimmed and lowercased.
	Email string

	// PasswordHash is a one-way salted hash; the plaintext is never stored.
	PasswordHash string

	// CreatedAt is when the account was registered.
	CreatedAt time.Time
}

// New constructs a validated Account. The email is normalized.
func New(id, name, email, passwordHash string, createdAt time.Time) (*Account, error) {
	a := &Account{
		ID:           strings.TrimSpace(id),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks that every required field is present.
func (a *Account) Validate() error {
	switch {
	case a.ID == "":
		return shared.NewValidationError("account", "id")
	case a.Name == "":
		return shared.NewValidationError("account", "name")
	case a.Email == "":
		return shared.NewValidationError("account", "email")
	case a.PasswordHash == "":
		return shared.NewValidationError("account", "password hash")
	case a.CreatedAt.IsZero():
		return shared.NewValidationError("account", "created at")
	}
	return nil
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail compares two addresses case-insensitively.
func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}

// PasswordHasher hashes and verifies passwords with a one-way salted function.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/notification"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER ACCOUNT COMMAND
// Creates an account and sends the welcome email. The new user is not
// logged in.
// ══════════════════════════════════════════════════════════════════════════════

// Messages shown after registration.
const (
	MsgRegisteredEmailSent = "Registration successful! Welcome email sent."
	MsgRegistered          = "Registration successful!"
)

// RegisterAccountCommand contains the registration form.
type RegisterAccountCommand struct {
	Name     string
	Email    string
	Password string
}

// Normalize trims every field and lowercases the email.
func (c RegisterAccountCommand) Normalize() RegisterAccountCommand {
	return RegisterAccountCommand{
		Name:     strings.TrimSpace(c.Name),
		Email:    account.NormalizeEmail(c.Email),
		Password: strings.TrimSpace(c.Password),
	}
}

// Validate requires every field to be non-empty after trimming.
func (c RegisterAccountCommand) Validate() error {
	switch {
	case c.Name == "":
		return shared.NewValidationError("register", "name")
	case c.Email == "":
		return shared.NewValidationError("register", "email")
	case c.Password == "":
		return shared.NewValidationError("register", "password")
	}
	return nil
}

// RegisterAccountResult describes a successful registration.
type RegisterAccountResult struct {
	Account *account.Account

	// WelcomeSent is true when the relay accepted the welcome email.
	WelcomeSent bool

	// Message is the flash text for the user.
	Message string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterAccountHandler handles the RegisterAccountCommand.
type RegisterAccountHandler struct {
	accounts account.Repository
	hasher   account.PasswordHasher
	welcome  notification.WelcomeSender
	log      *logger.Logger
}

// NewRegisterAccountHandler creates a new RegisterAccountHandler.
func NewRegisterAccountHandler(
	accounts account.Repository,
	hasher account.PasswordHasher,
	welcome notification.WelcomeSender,
	log *logger.Logger,
) *RegisterAccountHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterAccountHandler{
		accounts: accounts,
		hasher:   hasher,
		welcome:  welcome,
		log:      log.With(logger.Component("command.register")),
	}
}

// Handle validates, creates the account and sends the welcome email.
// shared.ErrDuplicateEmail is returned unchanged when the email is taken.
// A failed email never fails the registration.
func (h *RegisterAccountHandler) Handle(ctx context.Context, cmd RegisterAccountCommand) (*RegisterAccountResult, error) {
	cmd = cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	existing, err := h.accounts.FindByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}
	if existing != nil {
		return nil, shared.ErrDuplicateEmail
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	acc, err := h.accounts.Create(ctx, cmd.Name, cmd.Email, hash)
	if err != nil {
		if shared.IsAlreadyExists(err) {
			return nil, shared.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register: create account: %w", err)
	}
	h.log.Info("account registered", logger.AccountID(acc.ID))

	result := &RegisterAccountResult{Account: acc, Message: MsgRegistered}
	if h.welcome != nil && h.welcome.SendWelcome(ctx, acc.Email, acc.Name) {
		result.WelcomeSent = true
		result.Message = MsgRegisteredEmailSent
	}
	return result, nil
}

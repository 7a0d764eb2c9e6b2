// Package shared contains common domain errors used across all domain
// packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrInvalidFormat = errors.New("invalid format")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")

	// External service errors
	ErrExternalService = errors.New("external service error")
	ErrTimeout         = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "account", "progress", "auth"
	Op      string // Operation that failed, e.g., "Create", "Login"
	Kind    error  // Base error kind for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// NewValidationError reports a missing or malformed input field.
func NewValidationError(domain, field string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      "Validate",
		Kind:    ErrValidation,
		Message: field + " is required",
		Err:     ErrEmptyValue,
	}
}

// Account domain errors
var (
	ErrAccountNotFound = NewDomainError("account", "Find", ErrNotFound, "account not found")
	ErrDuplicateEmail  = NewDomainError("account", "Create", ErrAlreadyExists, "email already registered")
)

// Auth errors
var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so callers cannot tell which one failed.
	ErrInvalidCredentials = NewDomainError("auth", "Login", ErrUnauthorized, "invalid email or password")
	ErrUnauthenticated    = NewDomainError("auth", "RequireAuthenticated", ErrUnauthorized, "authentication required")
)

// Catalog errors
var (
	ErrCareerNotFound = NewDomainError("catalog", "Find", ErrNotFound, "career path not found")
)

// Persistence errors
var (
	ErrPersistenceCorrupt = NewDomainError("persistence", "Load", ErrInvalidFormat, "stored data is corrupt")
)

// Notification errors
var (
	ErrNotificationFailed = NewDomainError("notification", "Send", ErrExternalService, "failed to send notification")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrEmptyValue)
}

// IsUnauthorized checks if the error is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

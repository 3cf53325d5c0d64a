package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors wrap one of these so callers can branch with
// errors.Is regardless of the detail attached.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access forbidden")
	ErrInternal     = errors.New("internal error")
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrRoleNotFound = fmt.Errorf("role %w", ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("%w: email already in use", ErrConflict)

	// ErrInvalidCredentials is the only rejection the login path returns,
	// whether the email is unknown or the password is wrong.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)

	ErrDefaultRoleMissing = fmt.Errorf("%w: default role %q is not configured", ErrInternal, RoleUser)
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// RoleNotFoundError names a role that is not configured.
type RoleNotFoundError struct {
	Name string
}

func (e *RoleNotFoundError) Error() string {
	return fmt.Sprintf("role %q not found", e.Name)
}

func (e *RoleNotFoundError) Unwrap() error { return ErrRoleNotFound }

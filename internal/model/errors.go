package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an id or email lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a username or email uniqueness violation.
	ErrConflict = errors.New("already taken")
	// ErrInvalidCredentials indicates a login failure. The same error is
	// returned for an unknown email and a wrong password so callers cannot
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates an expired, malformed or badly signed token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrAuthenticationMissing indicates a request without credentials
	// against an operation that requires them.
	ErrAuthenticationMissing = errors.New("authentication required")
	// ErrAuthenticationInvalid indicates a request whose credentials were
	// present but could not be verified.
	ErrAuthenticationInvalid = errors.New("invalid authentication")
)

// ValidationError indicates malformed input that survived the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// DeniedError indicates an authorization failure for an authenticated
// caller. It is a first-class result, distinct from missing or invalid
// authentication, so the boundary can map it to its own status code.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("denied: %s", e.Reason)
}

// NewDeniedError creates a DeniedError with a human-readable reason.
func NewDeniedError(reason string) *DeniedError {
	return &DeniedError{Reason: reason}
}

// IsDenied reports whether err is a DeniedError.
func IsDenied(err error) bool {
	var denied *DeniedError
	return errors.As(err, &denied)
}

// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Selection and input validation errors. These are caught before
	// any network call and never change pipeline state.
	ErrEmptySelection     = errors.New("no scans selected")
	ErrMissingFile        = errors.New("no file selected")
	ErrMissingCredentials = errors.New("credentials are required")
	ErrInvalidResolution  = errors.New("invalid resolution mode")

	// Transport and backend errors.
	ErrBackendUnavailable = errors.New("backend unreachable")
	ErrActionInFlight     = errors.New("another action is already in progress")

	// Session errors.
	ErrSessionExpired = errors.New("session expired, please sign in again")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// ValidationError marks an error that was caught before any network
// call was made. A bulk action that fails validation performs no work
// and leaves the store and selection untouched.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err as a pre-flight validation failure.
func NewValidationError(err error) error {
	return &ValidationError{Err: err}
}

// IsValidation reports whether err was a pre-flight validation failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsSessionExpired reports whether err indicates the backend rejected
// the session. Callers should redirect to re-authentication rather than
// showing a generic failure.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

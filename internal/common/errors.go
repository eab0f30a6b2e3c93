// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Classification errors.
	ErrClassificationFailed = errors.New("classification failed")
	ErrUnknownCategory      = errors.New("unknown category label")

	// Retraining errors.
	ErrInvalidStatus = errors.New("invalid job status")
	ErrJobActive     = errors.New("a retraining job is already in progress")
	ErrJobFinished   = errors.New("job is already in a terminal state")
	ErrSpawnFailed   = errors.New("failed to launch retraining process")

	// Forecast errors.
	ErrInsufficientData = errors.New("insufficient data")

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

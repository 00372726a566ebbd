// backend/internal/models/errors.go
package models

import "errors"

// Error taxonomy shared by services and mapped to HTTP statuses at the
// handler boundary. Services wrap these with fmt.Errorf("...: %w", Err...).
var (
	// ErrNotFound is returned when a quiz, question or user cannot be resolved.
	ErrNotFound = errors.New("not found")
	// ErrValidation covers malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrLimitExceeded is returned when a batch exceeds the configured maximum.
	ErrLimitExceeded = errors.New("limit exceeded")
	// ErrConflict is returned on duplicate unique fields at registration.
	ErrConflict = errors.New("conflict")
	// ErrForbidden is returned when a non-owner attempts a mutation.
	ErrForbidden = errors.New("forbidden")
)

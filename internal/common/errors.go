// Package common defines sentinel errors shared by the client and server
// layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors caught before any network or database call.
	ErrValidation = errors.New("validation error")

	// Registration conflicts.
	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Transport-level error: the server could not be reached at all.
	ErrServerUnavailable = errors.New("server unavailable")
)

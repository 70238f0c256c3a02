// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication (unknown email or wrong password).
	ErrUnauthorized = errors.New("invalid email or password")

	// ErrRateLimited indicates temporary login lock due to repeated failures.
	ErrRateLimited = errors.New("too many failed attempts, try again later")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("email already exists")

	// ErrInvalidInput indicates a request that failed validation before reaching a store.
	ErrInvalidInput = errors.New("invalid input")
)

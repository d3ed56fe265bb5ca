// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist. It is also
	// surfaced in place of an ownership failure so callers cannot probe for
	// the existence of other users' resources.
	ErrNotFound = errors.New("not found")

	// ErrInvalidToken indicates a token that is malformed, expired, or whose
	// signature does not verify. Callers must not distinguish the causes.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthorized indicates a request without a usable identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a failed login or password re-check.
	// Deliberately undifferentiated between unknown user and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden indicates an authenticated user lacking the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrValidation indicates a malformed or incomplete payload.
	ErrValidation = errors.New("validation failed")
)

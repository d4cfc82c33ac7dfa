package domain

import "errors"

// Errors shared across the repository and service layers. Handlers map these
// onto HTTP statuses; the editing session maps them onto user-visible
// notifications without ever discarding the in-memory draft.
var (
	// ErrUnauthorized means there is no authenticated owner, or the caller
	// does not own the record it is addressing.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the referenced invoice record does not exist.
	ErrNotFound = errors.New("invoice not found")

	// ErrInvalidStatus means a status change named a value outside the
	// payment status enum.
	ErrInvalidStatus = errors.New("invalid payment status")
)

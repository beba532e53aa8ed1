// Package common defines shared constants and sentinel errors used across
// the storage, queue and sync layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound = errors.New("not found")

	// Remote adapter errors.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrMissingColumn     = errors.New("missing column")
	ErrUnauthorized      = errors.New("unauthorized")

	// Session errors.
	ErrNoSession    = errors.New("no active session")
	ErrInvalidToken = errors.New("invalid token")

	// Import errors.
	ErrMalformedImport = errors.New("malformed import data")
)

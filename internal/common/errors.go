// Package common defines shared constants and sentinel errors used across
// the imagepoints client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Generic flow control.
	ErrorInternal = errors.New("internal error")

	// Auth errors (missing, malformed or rejected credential).
	ErrorUnauthorized = errors.New("credential invalid or expired")
	ErrorForbidden    = errors.New("forbidden")

	// Token lifecycle errors.
	ErrMalformedToken  = errors.New("malformed token")
	ErrInvalidEncoding = errors.New("invalid token encoding")
	ErrTokenExpired    = errors.New("token expired")

	// Stored or received data that failed shape validation. Recovered by
	// discarding the corrupt cache and refetching, never by crashing.
	ErrMalformedResponse = errors.New("malformed response")
	ErrCorruptLocalData  = errors.New("corrupt local data")
)

// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across transport/operation layers.
var (
	// ErrNotFound indicates the server reported 404 for the requested entity.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the server rejected the request with 401.
	// Observing it also means the local session has been invalidated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTimeout indicates the request did not complete within the configured timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrValidation indicates a payload or response body violated its schema contract.
	ErrValidation = errors.New("validation failed")
)

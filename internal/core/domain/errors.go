package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrCredentialMissing indicates the credential file lacks the
	// refresh token or client id required for any refresh attempt.
	// Fatal for the run; only re-extracting credentials fixes it.
	ErrCredentialMissing = errors.New("refresh token or client id missing")

	// ErrRefreshTokenInvalid indicates the authorization server rejected
	// the refresh token (HTTP 400/401). The token has been rotated away
	// or revoked; retrying within this run cannot succeed.
	ErrRefreshTokenInvalid = errors.New("refresh token invalid")

	// ErrTokenUnavailable indicates no valid access token could be
	// obtained. Callers must treat this as a hard stop for the run,
	// not as a per-document error.
	ErrTokenUnavailable = errors.New("access token unavailable")

	// Delivery Errors.

	// ErrDeliveryFailed indicates the webhook rejected a payload after
	// all retry attempts. The document stays unsynced and is retried
	// on the next invocation.
	ErrDeliveryFailed = errors.New("webhook delivery failed")
)

// Package common defines shared constants and sentinel errors used across
// the LinkProof server and CLI. Callers should use errors.Is to match these
// values; lower layers wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrStoreUnavailable marks a backing store that could not be reached or did
	// not answer within the configured timeout. It is transient; callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInputUnavailable marks an upload whose bytes could not be fully read.
	ErrInputUnavailable = errors.New("input unavailable")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorValidation       = errors.New("validation error")
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrInvalidDigest      = errors.New("invalid digest")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

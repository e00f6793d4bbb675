// Package common defines shared sentinel errors and error types used across
// service layers. Callers should use errors.Is / errors.As to match them.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Provisioning errors.
	ErrAccountExists   = errors.New("account already exists for this email")
	ErrPasswordMissing = errors.New("password is required when no identity assertion is supplied")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Federation errors.
	ErrInvalidAssertion = errors.New("invalid or expired identity assertion")

	// Upload policy errors.
	ErrUploadRejected = errors.New("upload rejected")
)

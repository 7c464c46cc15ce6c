package services

import "errors"

// Definitive outcomes reported to the caller. Persistence failures are
// wrapped driver errors and propagate as-is; notification failures are
// logged and swallowed at the point of use.
var (
	// ErrQuotaExceeded means the user has no spin attempts remaining.
	ErrQuotaExceeded = errors.New("no spin attempts remaining")

	// ErrSelfReferral means a user tried to claim referral credit for themselves.
	ErrSelfReferral = errors.New("users cannot refer themselves")

	// ErrNotFound means the requested spin, task or user does not exist
	// (or belongs to someone else, which callers must not be able to tell apart).
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means a required identifier is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWheelNotConfigured means the tenant has no wheel items to spin.
	ErrWheelNotConfigured = errors.New("wheel has no items configured")

	// ErrInvalidCredentials means the admin login failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

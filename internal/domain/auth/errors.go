package auth

import "crmdesk/internal/pkg/apperror"

var (
	ErrEmailExists = apperror.Conflict("Email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot discover which accounts exist.
	ErrInvalidCredentials = apperror.Unauthorized("Invalid email or password")

	ErrInvalidSession = apperror.Unauthorized("Invalid or expired session")
)

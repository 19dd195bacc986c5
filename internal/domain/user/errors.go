package user

import "crmdesk/internal/pkg/apperror"

var (
	ErrUserNotFound  = apperror.NotFound("User not found")
	ErrEmailInUse    = apperror.Conflict("Email already in use")
	ErrEmailExists   = apperror.Conflict("Email already registered")
	ErrWrongPassword = apperror.Validation("Current password is incorrect")
)

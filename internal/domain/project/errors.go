package project

import (
	"crmdesk/internal/access"
	"crmdesk/internal/pkg/apperror"
)

var (
	ErrProjectNotFound  = access.ErrProjectNotFound
	ErrClientNotFound   = access.ErrClientNotFound
	ErrInvalidStartDate = apperror.Validation("Start date must be a date (YYYY-MM-DD)")
	ErrInvalidDeadline  = apperror.Validation("Deadline must be a date (YYYY-MM-DD)")
	ErrDeadlineBefore   = apperror.Validation("Deadline cannot be before start date")
	ErrAdvanceTooLarge  = apperror.Validation("Advance amount cannot exceed total amount")
)

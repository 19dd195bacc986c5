package payment

import (
	"crmdesk/internal/access"
	"crmdesk/internal/pkg/apperror"
)

var (
	ErrProjectNotFound = access.ErrProjectNotFound
	ErrInvalidDate     = apperror.Validation("Payment date must be a date (YYYY-MM-DD)")
)

package task

import (
	"crmdesk/internal/access"
	"crmdesk/internal/pkg/apperror"
)

var (
	ErrTaskNotFound    = access.ErrTaskNotFound
	ErrProjectNotFound = access.ErrProjectNotFound
	ErrClientNotFound  = access.ErrClientNotFound
	ErrNoParent        = apperror.Validation("Project or client is required")
	ErrClientMismatch  = apperror.Validation("Client does not match the project's client")
	ErrInvalidDueDate  = apperror.Validation("Due date must be a date (YYYY-MM-DD)")
)

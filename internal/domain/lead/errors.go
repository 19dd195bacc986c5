package lead

import (
	"crmdesk/internal/access"
	"crmdesk/internal/pkg/apperror"
)

var (
	ErrLeadNotFound  = access.ErrLeadNotFound
	ErrNoteNotFound  = apperror.NotFound("Note not found")
	ErrInvalidStatus = apperror.Validation("Invalid status value")
	ErrNoteRequired  = apperror.Validation("Note is required")
)

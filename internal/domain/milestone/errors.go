package milestone

import "crmdesk/internal/pkg/apperror"

var (
	ErrMilestoneNotFound = apperror.NotFound("Milestone not found")
	ErrInvalidDueDate    = apperror.Validation("Due date must be a date (YYYY-MM-DD)")
)

package requirement

import "crmdesk/internal/pkg/apperror"

var ErrRequirementNotFound = apperror.NotFound("Requirement not found")

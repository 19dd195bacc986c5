package feature

import "crmdesk/internal/pkg/apperror"

var ErrFeatureNotFound = apperror.NotFound("Feature not found")

package client

import (
	"crmdesk/internal/access"
	"crmdesk/internal/pkg/apperror"
)

var (
	ErrClientNotFound   = access.ErrClientNotFound
	ErrLeadNotFound     = access.ErrLeadNotFound
	ErrLeadNotClosed    = apperror.InvalidState("Only closed leads can be converted")
	ErrAlreadyConverted = apperror.Conflict("Lead already converted")
	ErrClientHasProject = apperror.Conflict("Client has projects and cannot be deleted")
)

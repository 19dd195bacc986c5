// Package request binds and validates JSON bodies for handlers.
package request

import (
	"github.com/gin-gonic/gin"

	"crmdesk/internal/pkg/apperror"
	"crmdesk/internal/pkg/response"
	"crmdesk/internal/pkg/validator"
)

var ErrInvalidBody = apperror.Validation("Invalid request body")

// BindJSON decodes and validates the body into req. On failure it writes a
// 400 response and returns false.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Fail(c, ErrInvalidBody)
		return false
	}
	if msg := validator.Message(req); msg != "" {
		response.Fail(c, apperror.Validation(msg))
		return false
	}
	return true
}

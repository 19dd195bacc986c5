package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/pkg/apperror"
)

const serverErrorMessage = "Server error"

// Success writes data as the JSON body.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}

// Abort writes an error body and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// Fail maps err to a status code. Errors that are not *apperror.Error are
// attached to the gin context for the error logger and hidden behind a
// generic message.
func Fail(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		Error(c, StatusFor(appErr.Kind), string(appErr.Kind), appErr.Message)
		return
	}

	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", serverErrorMessage)
}

func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindConflict, apperror.KindInvalidState:
		return http.StatusBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

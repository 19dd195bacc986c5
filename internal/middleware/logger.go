package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"crmdesk/internal/pkg/response"
)

// RequestLogger writes one structured entry per request.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(requestFields(c, start))
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}

// ErrorLogger logs errors attached to the context and recovers from panics.
// Both are reported to sentry when it is configured.
func ErrorLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("panic: %v", recovered)
				log.WithFields(requestFields(c, start)).
					WithError(err).
					WithField("stack", string(debug.Stack())).
					Error("request_error")
				capture(c, err)

				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error")
				return
			}

			for _, ginErr := range c.Errors {
				log.WithFields(requestFields(c, start)).
					WithError(ginErr.Err).
					WithField("error_type", fmt.Sprintf("%v", ginErr.Type)).
					Error("request_error")
				capture(c, ginErr.Err)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time) logrus.Fields {
	return logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
		"client_ip":  c.ClientIP(),
		"request_id": c.GetString("request_id"),
		"user_id":    c.GetInt64("user_id"),
	}
}

func capture(c *gin.Context, err error) {
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("request_id", c.GetString("request_id"))
		scope.SetTag("path", c.FullPath())
		scope.SetUser(sentry.User{ID: fmt.Sprintf("%d", c.GetInt64("user_id"))})
		hub.CaptureException(err)
	})
}

package logging

import (
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// New builds the process logger. Production-like environments log JSON.
func New(level string, jsonOutput bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if jsonOutput {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// InitSentry enables error reporting when dsn is set. The returned func
// flushes buffered events and must be called on shutdown.
func InitSentry(dsn, env string, log logrus.FieldLogger) func() {
	if dsn == "" {
		return func() {}
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Environment: env}); err != nil {
		log.WithError(err).Warn("sentry disabled")
		return func() {}
	}
	log.Info("sentry enabled")
	return func() { sentry.Flush(2 * time.Second) }
}

// Error logs err with structured context and forwards it to sentry.
func Error(log logrus.FieldLogger, errorType string, err error, fields logrus.Fields) {
	log.WithFields(fields).WithFields(logrus.Fields{
		"error_type": errorType,
		"error":      err.Error(),
	}).Error("error occurred")

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_type", errorType)
		for k, v := range fields {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Event logs a business event and records it as a sentry breadcrumb.
func Event(log logrus.FieldLogger, eventType string, fields logrus.Fields) {
	log.WithFields(fields).WithField("event_type", eventType).Info("event occurred")

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "info",
		Category:  eventType,
		Data:      fields,
		Timestamp: time.Now(),
	})
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(nopWriter{})
	return log
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

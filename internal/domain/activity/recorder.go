// Package activity records the audit trail of project-scoped mutations and
// streams it to live listeners.
package activity

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"crmdesk/internal/domain"
	"crmdesk/internal/metrics"
	"crmdesk/internal/realtime"
)

const EventType = "activity"

// Recorder is the side-effect hook attached to mutating workflows. Rows are
// written in the caller's transaction and published only after commit.
type Recorder struct {
	broker  realtime.Broker
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewRecorder(broker realtime.Broker, log logrus.FieldLogger, m *metrics.Metrics) *Recorder {
	return &Recorder{broker: broker, log: log, metrics: m}
}

// Log collects the entries written during one transaction.
type Log struct {
	tx      *gorm.DB
	entries []*domain.ActivityLog
}

// Add appends an activity row inside the running transaction.
func (l *Log) Add(projectID, userID int64, action string, meta map[string]interface{}) error {
	entry := &domain.ActivityLog{
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		Metadata:  datatypes.JSONMap(meta),
	}
	if err := l.tx.Create(entry).Error; err != nil {
		return err
	}
	l.entries = append(l.entries, entry)
	return nil
}

// Transaction runs fn in a database transaction and publishes whatever fn
// logged once the transaction commits.
func (r *Recorder) Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB, log *Log) error) error {
	var log *Log
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		log = &Log{tx: tx}
		return fn(tx, log)
	})
	if err != nil {
		return err
	}
	r.Publish(ctx, log.entries...)
	return nil
}

// Publish pushes committed entries to the broker. Failures are logged and
// never undo the committed write.
func (r *Recorder) Publish(ctx context.Context, entries ...*domain.ActivityLog) {
	for _, e := range entries {
		r.metrics.Event("activity_recorded")
		if r.broker == nil {
			continue
		}

		payload, err := json.Marshal(e)
		if err != nil {
			r.log.WithError(err).Warn("activity marshal failed")
			continue
		}
		ev := realtime.Event{Type: EventType, ProjectID: e.ProjectID, Payload: payload}
		if err := r.broker.Publish(context.WithoutCancel(ctx), ev); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"project_id":  e.ProjectID,
				"activity_id": e.ID,
			}).Warn("activity broadcast failed")
		}
	}
}

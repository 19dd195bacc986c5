package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"crmdesk/internal/database/dbtest"
	"crmdesk/internal/domain"
	"crmdesk/internal/logging"
	"crmdesk/internal/realtime"
)

func TestRecorder_PublishesAfterCommit(t *testing.T) {
	db := dbtest.New(t)
	broker := realtime.NewMemoryBroker()
	rec := NewRecorder(broker, logging.Discard(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := broker.Subscribe(ctx)
	require.NoError(t, err)

	admin := dbtest.Admin(t, db, "a@x.com")
	err = rec.Transaction(ctx, db, func(tx *gorm.DB, log *Log) error {
		return log.Add(5, admin.ID, "Milestone created", map[string]interface{}{"title": "Design"})
	})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventType, ev.Type)
		assert.Equal(t, int64(5), ev.ProjectID)
		assert.Contains(t, string(ev.Payload), "Milestone created")
	case <-time.After(time.Second):
		t.Fatal("activity not published")
	}

	var count int64
	db.Model(&domain.ActivityLog{}).Where("project_id = ?", 5).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecorder_RollbackWritesAndPublishesNothing(t *testing.T) {
	db := dbtest.New(t)
	broker := realtime.NewMemoryBroker()
	rec := NewRecorder(broker, logging.Discard(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := broker.Subscribe(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = rec.Transaction(ctx, db, func(tx *gorm.DB, log *Log) error {
		require.NoError(t, log.Add(5, 1, "Requirement created", nil))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	db.Model(&domain.ActivityLog{}).Count(&count)
	assert.Zero(t, count)

	select {
	case <-events:
		t.Fatal("rolled back activity must not be published")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestService_ListByProject(t *testing.T) {
	db := dbtest.New(t)
	rec := NewRecorder(nil, logging.Discard(), nil)
	svc := NewService(db)
	ctx := context.Background()

	admin := dbtest.Admin(t, db, "alice@x.com")
	require.NoError(t, rec.Transaction(ctx, db, func(tx *gorm.DB, log *Log) error {
		if err := log.Add(1, admin.ID, "first", nil); err != nil {
			return err
		}
		return log.Add(1, admin.ID, "second", map[string]interface{}{"old": "pending", "new": "completed"})
	}))
	require.NoError(t, rec.Transaction(ctx, db, func(tx *gorm.DB, log *Log) error {
		return log.Add(2, admin.ID, "other project", nil)
	}))

	views, err := svc.ListByProject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "second", views[0].Action)
	assert.Equal(t, "alice", views[0].UserName)
	assert.Equal(t, "completed", views[0].Metadata["new"])
}

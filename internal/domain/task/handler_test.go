package task

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"crmdesk/internal/access"
	"crmdesk/internal/database/dbtest"
	"crmdesk/internal/domain"
	"crmdesk/internal/domain/activity"
	"crmdesk/internal/logging"
	"crmdesk/internal/testutil"
)

func routerFor(db *gorm.DB, u *domain.User) *gin.Engine {
	svc := NewService(db, access.NewGuard(db), activity.NewRecorder(nil, logging.Discard(), nil))
	return testutil.Router(u, NewHandler(svc).RegisterRoutes)
}

func createTask(t *testing.T, r *gin.Engine, body map[string]interface{}) domain.Task {
	t.Helper()
	w := testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		Task domain.Task `json:"task"`
	}
	testutil.Decode(t, w, &out)
	return out.Task
}

func TestCreate_InheritsProjectClient(t *testing.T) {
	db := dbtest.New(t)
	admin := dbtest.Admin(t, db, "a@x.com")
	emp := dbtest.Employee(t, db, admin, "e@x.com")
	client := dbtest.Client(t, db, admin.ID, "Acme")
	project := dbtest.Project(t, db, admin.ID, client.ID, "Site", 100)

	task := createTask(t, routerFor(db, emp), map[string]interface{}{
		"title":       "Wireframes",
		"project_id":  project.ID,
		"assigned_to": emp.ID,
	})
	assert.Equal(t, admin.ID, task.CreatedBy)
	require.NotNil(t, task.ClientID)
	assert.Equal(t, client.ID, *task.ClientID)
	assert.Equal(t, domain.WorkPending, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)

	var logs []domain.ActivityLog
	require.NoError(t, db.Where("project_id = ?", project.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "Task created", logs[0].Action)

	var views []View
	testutil.Decode(t, testutil.DoJSON(t, routerFor(db, admin), http.MethodGet, fmt.Sprintf("/api/tasks/project/%d", project.ID), nil), &views)
	require.Len(t, views, 1)
	assert.Equal(t, "Site", views[0].ProjectName)
	assert.Equal(t, "Acme", views[0].ClientName)
	assert.Equal(t, "e", views[0].AssignedToName)
}

func TestCreate_Rules(t *testing.T) {
	db := dbtest.New(t)
	admin := dbtest.Admin(t, db, "a@x.com")
	outsider := dbtest.Admin(t, db, "b@x.com")
	client := dbtest.Client(t, db, admin.ID, "Acme")
	other := dbtest.Client(t, db, admin.ID, "Other")
	foreignClient := dbtest.Client(t, db, outsider.ID, "Theirs")
	project := dbtest.Project(t, db, admin.ID, client.ID, "Site", 100)
	r := routerFor(db, admin)

	for _, tc := range []struct {
		body   map[string]interface{}
		status int
		msg    string
	}{
		{map[string]interface{}{"title": "Hi", "client_id": client.ID}, http.StatusBadRequest, "Title must be at least 3 characters"},
		{map[string]interface{}{"title": "Call back"}, http.StatusBadRequest, "Project or client is required"},
		{map[string]interface{}{"title": "Call back", "client_id": foreignClient.ID}, http.StatusNotFound, "Client not found"},
		{map[string]interface{}{"title": "Call back", "project_id": project.ID, "client_id": other.ID}, http.StatusBadRequest, "Client does not match the project's client"},
		{map[string]interface{}{"title": "Call back", "client_id": client.ID, "assigned_to": outsider.ID}, http.StatusForbidden, "User not in same workspace"},
		{map[string]interface{}{"title": "Call back", "client_id": client.ID, "priority": "urgent"}, http.StatusBadRequest, "Priority must be one of: low, medium, high"},
	} {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", tc.body)
		assert.Equal(t, tc.status, w.Code, tc.body)
		assert.Equal(t, tc.msg, testutil.Message(t, w))
	}

	var n int64
	db.Model(&domain.Task{}).Count(&n)
	assert.Zero(t, n)
}

func TestUpdate_WritesPreImage(t *testing.T) {
	db := dbtest.New(t)
	admin := dbtest.Admin(t, db, "a@x.com")
	client := dbtest.Client(t, db, admin.ID, "Acme")
	r := routerFor(db, admin)

	task := createTask(t, r, map[string]interface{}{
		"title":       "Draft copy",
		"description": "Homepage",
		"client_id":   client.ID,
		"priority":    "low",
		"due_date":    "2026-05-01",
	})
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := testutil.DoJSON(t, r, http.MethodPut, path, map[string]interface{}{"title": "Final copy", "priority": "high"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored domain.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Equal(t, "Final copy", stored.Title)
	assert.Equal(t, "Homepage", stored.Description)
	assert.Equal(t, domain.PriorityHigh, stored.Priority)
	require.NotNil(t, stored.DueDate)
	assert.Equal(t, "2026-05-01", stored.DueDate.Format("2006-01-02"))

	var history []domain.TaskHistory
	require.NoError(t, db.Where("task_id = ?", task.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, "Draft copy", history[0].OldTitle)
	assert.Equal(t, "Homepage", history[0].OldDescription)
	assert.Equal(t, domain.WorkPending, history[0].OldStatus)
	assert.Equal(t, domain.PriorityLow, history[0].OldPriority)
	require.NotNil(t, history[0].OldDueDate)
	assert.Equal(t, "2026-05-01", history[0].OldDueDate.Format("2006-01-02"))
	assert.Equal(t, admin.ID, history[0].ChangedBy)

	w = testutil.DoJSON(t, r, http.MethodPatch, path+"/status", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	var views []HistoryView
	testutil.Decode(t, testutil.DoJSON(t, r, http.MethodGet, path+"/history", nil), &views)
	require.Len(t, views, 2)
	assert.Equal(t, "Final copy", views[0].OldTitle)
	assert.Equal(t, domain.PriorityHigh, views[0].OldPriority)
	assert.Equal(t, "a", views[0].ChangedByName)
}

func TestStatus_InvalidValueChangesNothing(t *testing.T) {
	db := dbtest.New(t)
	admin := dbtest.Admin(t, db, "a@x.com")
	client := dbtest.Client(t, db, admin.ID, "Acme")
	r := routerFor(db, admin)
	task := createTask(t, r, map[string]interface{}{"title": "Call back", "client_id": client.ID})

	w := testutil.DoJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/status", task.ID), map[string]string{"status": "blocked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored domain.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Equal(t, domain.WorkPending, stored.Status)

	var n int64
	db.Model(&domain.TaskHistory{}).Count(&n)
	assert.Zero(t, n)
}

func TestForeignTasksLookMissing(t *testing.T) {
	db := dbtest.New(t)
	admin := dbtest.Admin(t, db, "a@x.com")
	stranger := dbtest.Admin(t, db, "b@x.com")
	client := dbtest.Client(t, db, admin.ID, "Acme")
	project := dbtest.Project(t, db, admin.ID, client.ID, "Site", 100)
	task := createTask(t, routerFor(db, admin), map[string]interface{}{"title": "Call back", "project_id": project.ID})
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	r := routerFor(db, stranger)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, path},
		{http.MethodPut, path},
		{http.MethodPatch, path + "/status"},
		{http.MethodGet, path + "/history"},
		{http.MethodDelete, path},
	} {
		w := testutil.DoJSON(t, r, tc.method, tc.path, map[string]string{"status": "completed"})
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Task not found", testutil.Message(t, w))
	}

	w := testutil.DoJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/project/%d", project.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var list []View
	testutil.Decode(t, testutil.DoJSON(t, r, http.MethodGet, "/api/tasks", nil), &list)
	assert.Empty(t, list)

	var history int64
	db.Model(&domain.TaskHistory{}).Count(&history)
	assert.Zero(t, history)
}

func TestDelete_KeepsHistory(t *testing.T) {
	db := dbtest.New(t)
	admin := dbtest.Admin(t, db, "a@x.com")
	client := dbtest.Client(t, db, admin.ID, "Acme")
	project := dbtest.Project(t, db, admin.ID, client.ID, "Site", 100)
	r := routerFor(db, admin)
	task := createTask(t, r, map[string]interface{}{"title": "Call back", "project_id": project.ID})
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	require.Equal(t, http.StatusOK, testutil.DoJSON(t, r, http.MethodPut, path, map[string]string{"title": "Call again"}).Code)
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, r, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, testutil.DoJSON(t, r, http.MethodGet, path, nil).Code)

	var history int64
	db.Model(&domain.TaskHistory{}).Where("task_id = ?", task.ID).Count(&history)
	assert.Equal(t, int64(1), history)

	var actions []string
	require.NoError(t, db.Model(&domain.ActivityLog{}).Where("project_id = ?", project.ID).Order("id").Pluck("action", &actions).Error)
	assert.Equal(t, []string{"Task created", "Task updated", "Task deleted"}, actions)
}

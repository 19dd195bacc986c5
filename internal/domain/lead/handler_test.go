package lead

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
	"crmdesk/internal/logging"
	"crmdesk/internal/testutil"
)

func setup(t *testing.T) (*gorm.DB, *Handler) {
	t.Helper()
	db := dbtest.New(t)
	return db, NewHandler(NewService(db, access.NewGuard(db)), logging.Discard())
}

func routerFor(h *Handler, u *domain.User) *gin.Engine {
	return testutil.Router(u, func(api *gin.RouterGroup) { RegisterRoutes(api, h) })
}

func TestCreateAndList_SharedAcrossWorkspaceMembers(t *testing.T) {
	db, h := setup(t)
	admin := dbtest.Admin(t, db, "a@x.com")
	emp := dbtest.Employee(t, db, admin, "e@x.com")
	stranger := dbtest.Admin(t, db, "b@x.com")

	w := testutil.DoJSON(t, routerFor(h, emp), http.MethodPost, "/api/leads", map[string]interface{}{"name": "Bob"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Lead domain.Lead `json:"lead"`
	}
	testutil.Decode(t, w, &created)
	assert.Equal(t, domain.LeadNew, created.Lead.Status)
	assert.Equal(t, "manual", created.Lead.Source)
	assert.Equal(t, admin.ID, created.Lead.WorkspaceID)

	var leads []domain.Lead
	testutil.Decode(t, testutil.DoJSON(t, routerFor(h, admin), http.MethodGet, "/api/leads", nil), &leads)
	assert.Len(t, leads, 1)

	testutil.Decode(t, testutil.DoJSON(t, routerFor(h, stranger), http.MethodGet, "/api/leads", nil), &leads)
	assert.Empty(t, leads)

	w = testutil.DoJSON(t, routerFor(h, admin), http.MethodPost, "/api/leads", map[string]interface{}{"email": "x@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name is required", testutil.Message(t, w))
}

func TestCrossTenantAccessLooksMissing(t *testing.T) {
	db, h := setup(t)
	admin := dbtest.Admin(t, db, "a@x.com")
	stranger := dbtest.Admin(t, db, "b@x.com")
	lead := dbtest.Lead(t, db, admin.ID, "Bob", domain.LeadNew)
	path := fmt.Sprintf("/api/leads/%d", lead.ID)

	r := routerFor(h, stranger)
	for _, tc := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, path, nil},
		{http.MethodPut, path, map[string]string{"name": "Stolen"}},
		{http.MethodPatch, path + "/status", map[string]string{"status": "closed"}},
		{http.MethodDelete, path, nil},
		{http.MethodGet, path + "/notes", nil},
		{http.MethodPost, path + "/notes", map[string]string{"note": "hi"}},
	} {
		w := testutil.DoJSON(t, r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Lead not found", testutil.Message(t, w))
	}

	var stored domain.Lead
	require.NoError(t, db.First(&stored, lead.ID).Error)
	assert.Equal(t, "Bob", stored.Name)
	assert.Equal(t, domain.LeadNew, stored.Status)
}

func TestUpdate_PartialAndStatusEnum(t *testing.T) {
	db, h := setup(t)
	admin := dbtest.Admin(t, db, "a@x.com")
	lead := dbtest.Lead(t, db, admin.ID, "Bob", domain.LeadNew)
	r := routerFor(h, admin)
	path := fmt.Sprintf("/api/leads/%d", lead.ID)

	w := testutil.DoJSON(t, r, http.MethodPut, path, map[string]interface{}{"phone": "555"})
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoJSON(t, r, http.MethodPatch, path+"/status", map[string]string{"status": "won"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.DoJSON(t, r, http.MethodPut, path, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored domain.Lead
	require.NoError(t, db.First(&stored, lead.ID).Error)
	assert.Equal(t, "Bob", stored.Name)
	assert.Equal(t, "555", stored.Phone)
	assert.Equal(t, domain.LeadNew, stored.Status)

	w = testutil.DoJSON(t, r, http.MethodPatch, path+"/status", map[string]string{"status": "closed"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&stored, lead.ID).Error)
	assert.Equal(t, domain.LeadClosed, stored.Status)
}

func TestNotes(t *testing.T) {
	db, h := setup(t)
	admin := dbtest.Admin(t, db, "alice@x.com")
	emp := dbtest.Employee(t, db, admin, "eve@x.com")
	stranger := dbtest.Admin(t, db, "mallory@x.com")
	lead := dbtest.Lead(t, db, admin.ID, "Bob", domain.LeadNew)
	path := fmt.Sprintf("/api/leads/%d/notes", lead.ID)

	w := testutil.DoJSON(t, routerFor(h, emp), http.MethodPost, path, map[string]string{"note": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.DoJSON(t, routerFor(h, emp), http.MethodPost, path, map[string]string{"note": "Called, interested"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var note NoteView
	testutil.Decode(t, w, &note)
	assert.Equal(t, "eve", note.CreatedByName)
	assert.Equal(t, emp.ID, note.CreatedBy)

	var notes []NoteView
	testutil.Decode(t, testutil.DoJSON(t, routerFor(h, admin), http.MethodGet, path, nil), &notes)
	require.Len(t, notes, 1)

	testutil.Decode(t, testutil.DoJSON(t, routerFor(h, admin), http.MethodGet, "/api/leads/notes", nil), &notes)
	require.Len(t, notes, 1)
	assert.Equal(t, "Bob", notes[0].LeadName)

	testutil.Decode(t, testutil.DoJSON(t, routerFor(h, stranger), http.MethodGet, "/api/leads/notes", nil), &notes)
	assert.Empty(t, notes)

	notePath := fmt.Sprintf("/api/leads/notes/%d", note.ID)
	w = testutil.DoJSON(t, routerFor(h, stranger), http.MethodDelete, notePath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.DoJSON(t, routerFor(h, admin), http.MethodDelete, notePath, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoJSON(t, routerFor(h, admin), http.MethodDelete, notePath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteLead_RemovesNotes(t *testing.T) {
	db, h := setup(t)
	admin := dbtest.Admin(t, db, "a@x.com")
	lead := dbtest.Lead(t, db, admin.ID, "Bob", domain.LeadNew)
	require.NoError(t, db.Create(&domain.LeadNote{LeadID: lead.ID, Note: "n", CreatedBy: admin.ID}).Error)

	w := testutil.DoJSON(t, routerFor(h, admin), http.MethodDelete, fmt.Sprintf("/api/leads/%d", lead.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var leads, notes int64
	db.Model(&domain.Lead{}).Count(&leads)
	db.Model(&domain.LeadNote{}).Count(&notes)
	assert.Zero(t, leads)
	assert.Zero(t, notes)
}

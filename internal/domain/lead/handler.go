package lead

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"crmdesk/internal/access"
	"crmdesk/internal/logging"
	"crmdesk/internal/pkg/request"
	"crmdesk/internal/pkg/response"
	"crmdesk/internal/tenancy"
)

// Handler handles lead HTTP requests
type Handler struct {
	service *Service
	log     logrus.FieldLogger
}

func NewHandler(service *Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

// ListLeads handles GET /leads
func (h *Handler) ListLeads(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	leads, err := h.service.List(c.Request.Context(), identity.WorkspaceID())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, leads)
}

// GetLead handles GET /leads/:id
func (h *Handler) GetLead(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	lead, err := h.service.Get(c.Request.Context(), identity.WorkspaceID(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, lead)
}

// CreateLead handles POST /leads
func (h *Handler) CreateLead(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	var req CreateLeadRequest
	if !request.BindJSON(c, &req) {
		return
	}

	lead, err := h.service.Create(c.Request.Context(), identity.WorkspaceID(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Lead created successfully", "lead": lead})
}

// UpdateLead handles PUT /leads/:id
func (h *Handler) UpdateLead(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateLeadRequest
	if !request.BindJSON(c, &req) {
		return
	}

	lead, err := h.service.Update(c.Request.Context(), identity.WorkspaceID(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Lead updated successfully", "lead": lead})
}

// UpdateStatus handles PATCH /leads/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateStatusRequest
	if !request.BindJSON(c, &req) {
		return
	}

	lead, previous, err := h.service.UpdateStatus(c.Request.Context(), identity.WorkspaceID(), id, statusOf(req.Status))
	if err != nil {
		response.Fail(c, err)
		return
	}

	logging.Event(h.log, "lead.status_changed", logrus.Fields{
		"lead_id":    lead.ID,
		"user_id":    identity.UserID,
		"old_status": previous,
		"new_status": lead.Status,
	})
	response.Success(c, http.StatusOK, gin.H{"message": "Lead status updated", "lead": lead})
}

// DeleteLead handles DELETE /leads/:id
func (h *Handler) DeleteLead(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), identity.WorkspaceID(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}

// ListNotes handles GET /leads/:id/notes
func (h *Handler) ListNotes(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	notes, err := h.service.ListNotes(c.Request.Context(), identity.WorkspaceID(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, notes)
}

// AddNote handles POST /leads/:id/notes
func (h *Handler) AddNote(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req CreateNoteRequest
	if !request.BindJSON(c, &req) {
		return
	}

	note, err := h.service.AddNote(c.Request.Context(), identity.WorkspaceID(), id, identity.UserID, req.Note)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, note)
}

// ListWorkspaceNotes handles GET /leads/notes
func (h *Handler) ListWorkspaceNotes(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	notes, err := h.service.ListWorkspaceNotes(c.Request.Context(), identity.WorkspaceID())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, notes)
}

// DeleteNote handles DELETE /leads/notes/:noteId
func (h *Handler) DeleteNote(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	noteID, err := access.ParamID(c, "noteId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.service.DeleteNote(c.Request.Context(), identity.WorkspaceID(), noteID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Note deleted"})
}

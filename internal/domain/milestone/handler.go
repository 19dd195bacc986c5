package milestone

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/access"
	"crmdesk/internal/domain"
	"crmdesk/internal/pkg/request"
	"crmdesk/internal/pkg/response"
	"crmdesk/internal/tenancy"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts under a group already guarded by ProjectScope.
func (h *Handler) RegisterRoutes(project *gin.RouterGroup) {
	milestones := project.Group("/milestones")
	{
		milestones.GET("", h.List)
		milestones.POST("", h.Create)
		milestones.PUT("/:milestoneId", h.Update)
		milestones.PATCH("/:milestoneId/status", h.UpdateStatus)
		milestones.DELETE("/:milestoneId", h.Delete)
	}
}

// List handles GET /projects/:id/milestones
func (h *Handler) List(c *gin.Context) {
	project := access.ProjectFromContext(c)

	items, err := h.service.List(c.Request.Context(), project.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Create handles POST /projects/:id/milestones
func (h *Handler) Create(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)

	var req CreateMilestoneRequest
	if !request.BindJSON(c, &req) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), project.ID, identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Milestone created", "milestone": item})
}

// Update handles PUT /projects/:id/milestones/:milestoneId
func (h *Handler) Update(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "milestoneId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateMilestoneRequest
	if !request.BindJSON(c, &req) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), project.ID, id, identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Milestone updated", "milestone": item})
}

// UpdateStatus handles PATCH /projects/:id/milestones/:milestoneId/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "milestoneId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateStatusRequest
	if !request.BindJSON(c, &req) {
		return
	}

	item, err := h.service.UpdateStatus(c.Request.Context(), project.ID, id, identity.UserID, domain.WorkStatus(req.Status))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Milestone status updated", "milestone": item})
}

// Delete handles DELETE /projects/:id/milestones/:milestoneId
func (h *Handler) Delete(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "milestoneId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), project.ID, id, identity.UserID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Milestone deleted"})
}

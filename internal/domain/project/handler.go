package project

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/access"
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

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.GET("", h.List)
		projects.POST("", h.Create)
		projects.GET("/:id", h.Get)
		projects.PUT("/:id", h.Update)
		projects.DELETE("/:id", h.Delete)
	}
}

// RegisterScopedRoutes mounts under a group already guarded by ProjectScope.
func (h *Handler) RegisterScopedRoutes(project *gin.RouterGroup) {
	project.GET("/full", h.Full)
}

// List handles GET /projects
func (h *Handler) List(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	views, err := h.service.List(c.Request.Context(), identity.WorkspaceID())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

// Get handles GET /projects/:id
func (h *Handler) Get(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	view, err := h.service.Get(c.Request.Context(), identity.WorkspaceID(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Create handles POST /projects
func (h *Handler) Create(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	var req CreateProjectRequest
	if !request.BindJSON(c, &req) {
		return
	}

	view, err := h.service.Create(c.Request.Context(), identity.WorkspaceID(), identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Project created successfully", "project": view})
}

// Update handles PUT /projects/:id
func (h *Handler) Update(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateProjectRequest
	if !request.BindJSON(c, &req) {
		return
	}

	view, err := h.service.Update(c.Request.Context(), identity.WorkspaceID(), id, identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Project updated successfully", "project": view})
}

// Delete handles DELETE /projects/:id
func (h *Handler) Delete(c *gin.Context) {
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
	response.Success(c, http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// Full handles GET /projects/:id/full
func (h *Handler) Full(c *gin.Context) {
	project := access.ProjectFromContext(c)

	full, err := h.service.Full(c.Request.Context(), project)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, full)
}

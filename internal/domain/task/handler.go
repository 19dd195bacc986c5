package task

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

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	tasks := r.Group("/tasks")
	{
		tasks.GET("", h.List)
		tasks.POST("", h.Create)
		tasks.GET("/project/:projectId", h.ListByProject)
		tasks.GET("/:id", h.Get)
		tasks.PUT("/:id", h.Update)
		tasks.PATCH("/:id/status", h.UpdateStatus)
		tasks.GET("/:id/history", h.History)
		tasks.DELETE("/:id", h.Delete)
	}
}

// List handles GET /tasks
func (h *Handler) List(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	views, err := h.service.List(c.Request.Context(), identity.WorkspaceID())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

// ListByProject handles GET /tasks/project/:projectId
func (h *Handler) ListByProject(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	projectID, err := access.ParamID(c, "projectId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	views, err := h.service.ListByProject(c.Request.Context(), identity.WorkspaceID(), projectID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

// Get handles GET /tasks/:id
func (h *Handler) Get(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	task, err := h.service.Get(c.Request.Context(), identity.WorkspaceID(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// Create handles POST /tasks
func (h *Handler) Create(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	var req CreateTaskRequest
	if !request.BindJSON(c, &req) {
		return
	}

	task, err := h.service.Create(c.Request.Context(), identity.WorkspaceID(), identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Task created successfully", "task": task})
}

// Update handles PUT /tasks/:id
func (h *Handler) Update(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateTaskRequest
	if !request.BindJSON(c, &req) {
		return
	}

	task, err := h.service.Update(c.Request.Context(), identity.WorkspaceID(), id, identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Task updated successfully", "task": task})
}

// UpdateStatus handles PATCH /tasks/:id/status
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

	task, err := h.service.UpdateStatus(c.Request.Context(), identity.WorkspaceID(), id, identity.UserID, domain.WorkStatus(req.Status))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Task status updated", "task": task})
}

// History handles GET /tasks/:id/history
func (h *Handler) History(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	history, err := h.service.History(c.Request.Context(), identity.WorkspaceID(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, history)
}

// Delete handles DELETE /tasks/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), identity.WorkspaceID(), id, identity.UserID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

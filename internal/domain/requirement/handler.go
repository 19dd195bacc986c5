package requirement

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
	reqs := project.Group("/requirements")
	{
		reqs.GET("", h.List)
		reqs.POST("", h.Create)
		reqs.PATCH("/:requirementId", h.Update)
		reqs.PATCH("/:requirementId/status", h.UpdateStatus)
		reqs.DELETE("/:requirementId", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	project := access.ProjectFromContext(c)

	items, err := h.service.List(c.Request.Context(), project.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Create(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)

	var req CreateRequirementRequest
	if !request.BindJSON(c, &req) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), project.ID, identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Requirement added", "requirement": item})
}

func (h *Handler) Update(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "requirementId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateRequirementRequest
	if !request.BindJSON(c, &req) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), project.ID, id, identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Requirement updated", "requirement": item})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "requirementId")
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
	response.Success(c, http.StatusOK, gin.H{"message": "Requirement status updated", "requirement": item})
}

func (h *Handler) Delete(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "requirementId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), project.ID, id, identity.UserID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Requirement deleted"})
}

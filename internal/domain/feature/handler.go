package feature

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

// RegisterRoutes mounts under a group already guarded by ProjectScope.
func (h *Handler) RegisterRoutes(project *gin.RouterGroup) {
	project.GET("/features", h.List)
	project.POST("/features", h.Create)
	project.DELETE("/features/:featureId", h.Delete)
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

	var req CreateFeatureRequest
	if !request.BindJSON(c, &req) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), project.ID, identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Feature added", "feature": item})
}

func (h *Handler) Delete(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "featureId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), project.ID, id, identity.UserID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Feature deleted"})
}

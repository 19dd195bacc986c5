package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

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
	r.GET("/dashboard", h.Get)
}

// Get handles GET /dashboard
func (h *Handler) Get(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	summary, err := h.service.Summary(c.Request.Context(), identity.WorkspaceID())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

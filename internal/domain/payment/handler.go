package payment

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
	payments := r.Group("/payments")
	{
		payments.POST("", h.Create)
		payments.GET("/project/:id", h.ListByProject)
	}
}

// Create handles POST /payments
func (h *Handler) Create(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	var req CreatePaymentRequest
	if !request.BindJSON(c, &req) {
		return
	}

	payment, err := h.service.Record(c.Request.Context(), identity.WorkspaceID(), identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Payment recorded successfully", "payment": payment})
}

// ListByProject handles GET /payments/project/:id
func (h *Handler) ListByProject(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	projectID, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	payments, err := h.service.ListByProject(c.Request.Context(), identity.WorkspaceID(), projectID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, payments)
}

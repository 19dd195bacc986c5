package client

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

type Handler struct {
	service *Service
	log     logrus.FieldLogger
}

func NewHandler(service *Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/clients")
	{
		clients.GET("", h.List)
		clients.POST("", h.Create)
		clients.POST("/convert/:leadId", h.Convert)
		clients.GET("/:id", h.Get)
		clients.PUT("/:id", h.Update)
		clients.DELETE("/:id", h.Delete)
	}
}

// List handles GET /clients
func (h *Handler) List(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	clients, err := h.service.List(c.Request.Context(), identity.WorkspaceID())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, clients)
}

// Get handles GET /clients/:id
func (h *Handler) Get(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	client, err := h.service.Get(c.Request.Context(), identity.WorkspaceID(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, client)
}

// Create handles POST /clients
func (h *Handler) Create(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	var req CreateClientRequest
	if !request.BindJSON(c, &req) {
		return
	}

	client, err := h.service.Create(c.Request.Context(), identity.WorkspaceID(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Client created successfully", "client": client})
}

// Update handles PUT /clients/:id
func (h *Handler) Update(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateClientRequest
	if !request.BindJSON(c, &req) {
		return
	}

	client, err := h.service.Update(c.Request.Context(), identity.WorkspaceID(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Client updated successfully", "client": client})
}

// Delete handles DELETE /clients/:id
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
	response.Success(c, http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// Convert handles POST /clients/convert/:leadId
func (h *Handler) Convert(c *gin.Context) {
	identity := tenancy.MustFromContext(c)
	leadID, err := access.ParamID(c, "leadId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	client, err := h.service.Convert(c.Request.Context(), identity.WorkspaceID(), leadID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	logging.Event(h.log, "lead.converted", logrus.Fields{
		"lead_id":   leadID,
		"client_id": client.ID,
		"user_id":   identity.UserID,
	})
	response.Success(c, http.StatusCreated, gin.H{
		"message":  "Lead converted successfully",
		"clientId": client.ID,
	})
}

package activity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"crmdesk/internal/access"
	"crmdesk/internal/pkg/response"
	"crmdesk/internal/realtime"
	"crmdesk/internal/tenancy"
)

type Handler struct {
	service *Service
	hub     *realtime.Hub
	log     logrus.FieldLogger
}

func NewHandler(service *Service, hub *realtime.Hub, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, hub: hub, log: log}
}

// RegisterRoutes mounts under a group already guarded by ProjectScope.
func (h *Handler) RegisterRoutes(project *gin.RouterGroup) {
	project.GET("/activity", h.List)
	project.GET("/activity/stream", h.Stream)
}

// List handles GET /projects/:id/activity
func (h *Handler) List(c *gin.Context) {
	project := access.ProjectFromContext(c)

	views, err := h.service.ListByProject(c.Request.Context(), project.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

// Stream handles GET /projects/:id/activity/stream (websocket)
func (h *Handler) Stream(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)

	if err := h.hub.Serve(c.Writer, c.Request, identity.UserID, project.ID); err != nil {
		h.log.WithError(err).WithField("project_id", project.ID).Debug("activity stream upgrade failed")
	}
}

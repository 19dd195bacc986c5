package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"crmdesk/internal/logging"
	"crmdesk/internal/middleware"
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

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	users := protected.Group("/users")
	{
		users.GET("", h.WorkspaceUsers)
		users.GET("/me", h.GetMe)
		users.PUT("/me", h.UpdateMe)
		users.PUT("/change-password", h.ChangePassword)
		users.GET("/team", middleware.AdminOnly(), h.GetTeam)
		users.POST("/team", middleware.AdminOnly(), h.CreateEmployee)
	}
}

// GetMe handles GET /users/me
func (h *Handler) GetMe(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	u, err := h.service.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(u))
}

// UpdateMe handles PUT /users/me
func (h *Handler) UpdateMe(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	var req UpdateMeRequest
	if !request.BindJSON(c, &req) {
		return
	}

	u, err := h.service.UpdateMe(c.Request.Context(), identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Profile updated", "user": toResponse(u)})
}

// ChangePassword handles PUT /users/change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	var req ChangePasswordRequest
	if !request.BindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), identity.UserID, req); err != nil {
		response.Fail(c, err)
		return
	}
	logging.Event(h.log, "user.password_changed", logrus.Fields{"user_id": identity.UserID})
	response.Success(c, http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// GetTeam handles GET /users/team (admin)
func (h *Handler) GetTeam(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	team, err := h.service.Team(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponses(team))
}

// CreateEmployee handles POST /users/team (admin)
func (h *Handler) CreateEmployee(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	var req CreateEmployeeRequest
	if !request.BindJSON(c, &req) {
		return
	}

	u, err := h.service.CreateEmployee(c.Request.Context(), identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	logging.Event(h.log, "user.employee_created", logrus.Fields{"user_id": u.ID, "owner_id": identity.UserID})
	response.Success(c, http.StatusCreated, gin.H{"message": "Employee created successfully", "user": toResponse(u)})
}

// WorkspaceUsers handles GET /users
func (h *Handler) WorkspaceUsers(c *gin.Context) {
	identity := tenancy.MustFromContext(c)

	users, err := h.service.WorkspaceUsers(c.Request.Context(), identity.WorkspaceID())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponses(users))
}

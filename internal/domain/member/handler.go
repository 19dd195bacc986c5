package member

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
	members := project.Group("/members")
	{
		members.GET("", h.List)
		members.POST("", h.Add)
		members.PATCH("/:memberId", h.UpdateRole)
		members.DELETE("/:memberId", h.Remove)
	}
}

// List handles GET /projects/:id/members
func (h *Handler) List(c *gin.Context) {
	project := access.ProjectFromContext(c)

	views, err := h.service.List(c.Request.Context(), project.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

// Add handles POST /projects/:id/members
func (h *Handler) Add(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)

	var req AddMemberRequest
	if !request.BindJSON(c, &req) {
		return
	}

	m, err := h.service.Add(c.Request.Context(), identity.WorkspaceID(), project.ID, identity.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Member added", "member": m})
}

// UpdateRole handles PATCH /projects/:id/members/:memberId
func (h *Handler) UpdateRole(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "memberId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateRoleRequest
	if !request.BindJSON(c, &req) {
		return
	}

	m, err := h.service.UpdateRole(c.Request.Context(), project.ID, id, identity.UserID, req.Role)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Member role updated", "member": m})
}

// Remove handles DELETE /projects/:id/members/:memberId
func (h *Handler) Remove(c *gin.Context) {
	project := access.ProjectFromContext(c)
	identity := tenancy.MustFromContext(c)
	id, err := access.ParamID(c, "memberId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.service.Remove(c.Request.Context(), project.ID, id, identity.UserID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Member removed"})
}

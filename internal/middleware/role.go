package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/domain"
	"crmdesk/internal/pkg/response"
	"crmdesk/internal/tenancy"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(requiredRole domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := tenancy.FromContext(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
			return
		}

		if identity.Role != requiredRole {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

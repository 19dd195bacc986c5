package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/domain"
	"crmdesk/internal/pkg/response"
	"crmdesk/internal/tenancy"
)

// SessionResolver turns a session token into its current user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

// Session authenticates the request from the session cookie, falling back
// to an Authorization: Bearer header, and stores the acting identity.
func Session(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
			return
		}

		user, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		identity := tenancy.FromUser(user)
		if identity.WorkspaceID() == 0 {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account is not attached to a workspace")
			return
		}

		tenancy.Set(c, identity)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

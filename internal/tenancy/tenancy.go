// Package tenancy resolves the acting identity of a request and the
// workspace it operates in.
package tenancy

import (
	"github.com/gin-gonic/gin"

	"crmdesk/internal/domain"
)

const identityKey = "identity"

// Identity is the authenticated caller, loaded fresh from storage for every
// request.
type Identity struct {
	UserID  int64
	Name    string
	Email   string
	Role    domain.UserRole
	OwnerID *int64
}

func FromUser(u *domain.User) Identity {
	return Identity{
		UserID:  u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		OwnerID: u.OwnerID,
	}
}

// WorkspaceID is the tenancy boundary: admins own the workspace keyed by
// their id, employees work in their owner's. Zero means no workspace.
func (i Identity) WorkspaceID() int64 {
	return WorkspaceOf(i.Role, i.UserID, i.OwnerID)
}

func WorkspaceOf(role domain.UserRole, userID int64, ownerID *int64) int64 {
	if role == domain.RoleAdmin {
		return userID
	}
	if ownerID != nil {
		return *ownerID
	}
	return 0
}

// Set stores the identity on the request context together with the flat
// user_id and role keys read by the logging middleware.
func Set(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.UserID)
	c.Set("role", string(id.Role))
}

func FromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// MustFromContext is for handlers mounted behind the session middleware.
func MustFromContext(c *gin.Context) Identity {
	id, ok := FromContext(c)
	if !ok {
		panic("tenancy: identity missing from context")
	}
	return id
}

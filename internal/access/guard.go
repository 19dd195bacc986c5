// Package access scopes every resource lookup to the caller's workspace.
// A resource outside the workspace is reported exactly like a missing one.
package access

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crmdesk/internal/domain"
	"crmdesk/internal/pkg/apperror"
	"crmdesk/internal/pkg/response"
	"crmdesk/internal/tenancy"
)

const projectKey = "project"

var (
	ErrLeadNotFound    = apperror.NotFound("Lead not found")
	ErrClientNotFound  = apperror.NotFound("Client not found")
	ErrProjectNotFound = apperror.NotFound("Project not found")
	ErrTaskNotFound    = apperror.NotFound("Task not found")
	ErrUserNotFound    = apperror.NotFound("User not found")

	// ErrUserOutsideWorkspace is deliberately distinct from ErrUserNotFound:
	// team visibility is part of membership assignment.
	ErrUserOutsideWorkspace = apperror.Forbidden("User not in same workspace")

	ErrInvalidID = apperror.Validation("Invalid ID")
)

// InWorkspace limits a query on a workspace-direct table.
func InWorkspace(workspaceID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("workspace_id = ?", workspaceID)
	}
}

// TasksInWorkspace limits a task query. Tasks record their workspace in
// created_by.
func TasksInWorkspace(workspaceID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.created_by = ?", workspaceID)
	}
}

// UsersInWorkspace matches the workspace owner and its employees.
func UsersInWorkspace(workspaceID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("users.id = ? OR users.owner_id = ?", workspaceID, workspaceID)
	}
}

type Guard struct {
	db *gorm.DB
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// WithTx returns a guard that runs its lookups inside tx.
func (g *Guard) WithTx(tx *gorm.DB) *Guard {
	return &Guard{db: tx}
}

func (g *Guard) Lead(ctx context.Context, workspaceID, id int64) (*domain.Lead, error) {
	var lead domain.Lead
	if err := g.db.WithContext(ctx).Scopes(InWorkspace(workspaceID)).First(&lead, id).Error; err != nil {
		return nil, notFound(err, ErrLeadNotFound)
	}
	return &lead, nil
}

// LeadForUpdate is Lead with a row lock, for use inside a transaction.
func (g *Guard) LeadForUpdate(ctx context.Context, workspaceID, id int64) (*domain.Lead, error) {
	var lead domain.Lead
	if err := g.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(InWorkspace(workspaceID)).
		First(&lead, id).Error; err != nil {
		return nil, notFound(err, ErrLeadNotFound)
	}
	return &lead, nil
}

func (g *Guard) Client(ctx context.Context, workspaceID, id int64) (*domain.Client, error) {
	var client domain.Client
	if err := g.db.WithContext(ctx).Scopes(InWorkspace(workspaceID)).First(&client, id).Error; err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	return &client, nil
}

func (g *Guard) Project(ctx context.Context, workspaceID, id int64) (*domain.Project, error) {
	var project domain.Project
	if err := g.db.WithContext(ctx).Scopes(InWorkspace(workspaceID)).First(&project, id).Error; err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return &project, nil
}

func (g *Guard) Task(ctx context.Context, workspaceID, id int64) (*domain.Task, error) {
	var task domain.Task
	if err := g.db.WithContext(ctx).Scopes(TasksInWorkspace(workspaceID)).First(&task, id).Error; err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	return &task, nil
}

// WorkspaceUser distinguishes a user that does not exist from one that
// belongs to another workspace.
func (g *Guard) WorkspaceUser(ctx context.Context, workspaceID, userID int64) (*domain.User, error) {
	var user domain.User
	if err := g.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if tenancy.WorkspaceOf(user.Role, user.ID, user.OwnerID) != workspaceID {
		return nil, ErrUserOutsideWorkspace
	}
	return &user, nil
}

// ProjectScope resolves the :id project for nested routes and stores it on
// the context. Children are then keyed by the verified project's id.
func (g *Guard) ProjectScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := tenancy.FromContext(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, string(apperror.KindUnauthorized), "Not authenticated")
			return
		}

		id, err := ParamID(c, "id")
		if err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		project, err := g.Project(c.Request.Context(), identity.WorkspaceID(), id)
		if err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		c.Set(projectKey, project)
		c.Next()
	}
}

// ProjectFromContext returns the project verified by ProjectScope.
func ProjectFromContext(c *gin.Context) *domain.Project {
	v, ok := c.Get(projectKey)
	if !ok {
		panic("access: project missing from context")
	}
	return v.(*domain.Project)
}

func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func notFound(err error, sentinel *apperror.Error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

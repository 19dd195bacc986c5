// Package member assigns workspace users to projects.
package member

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"crmdesk/internal/database"
	"crmdesk/internal/domain"
	"crmdesk/internal/domain/activity"
	"crmdesk/internal/pkg/apperror"
)

const defaultRole = "member"

var (
	ErrMemberNotFound  = apperror.NotFound("Member not found")
	ErrAlreadyAssigned = apperror.Conflict("User already assigned to this project")
	ErrRoleRequired    = apperror.Validation("Role is required")
)

type userGuard interface {
	WorkspaceUser(ctx context.Context, workspaceID, userID int64) (*domain.User, error)
}

type AddMemberRequest struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Role   string `json:"role" validate:"max=60"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,max=60"`
}

// View is a membership with the member's user details.
type View struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	UserID     int64     `json:"user_id"`
	Role       string    `json:"role"`
	AssignedBy int64     `json:"assigned_by"`
	CreatedAt  time.Time `json:"created_at"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
}

type Service struct {
	db       *gorm.DB
	users    userGuard
	recorder *activity.Recorder
}

func NewService(db *gorm.DB, users userGuard, recorder *activity.Recorder) *Service {
	return &Service{db: db, users: users, recorder: recorder}
}

func (s *Service) List(ctx context.Context, projectID int64) ([]View, error) {
	views := make([]View, 0)
	err := s.db.WithContext(ctx).
		Table("project_members").
		Select("project_members.*, users.name AS name, users.email AS email").
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.project_id = ?", projectID).
		Order("project_members.created_at ASC, project_members.id ASC").
		Scan(&views).Error
	return views, err
}

// Add assigns a user of the same workspace. A missing user is NotFound, a
// user of another workspace is Forbidden and a repeat is a Conflict.
func (s *Service) Add(ctx context.Context, workspaceID, projectID, actorID int64, req AddMemberRequest) (*domain.ProjectMember, error) {
	user, err := s.users.WorkspaceUser(ctx, workspaceID, req.UserID)
	if err != nil {
		return nil, err
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = defaultRole
	}
	m := &domain.ProjectMember{ProjectID: projectID, UserID: user.ID, Role: role, AssignedBy: actorID}

	err = s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		var existing int64
		if err := tx.Model(&domain.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", projectID, user.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyAssigned
		}
		if err := tx.Create(m).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyAssigned
			}
			return err
		}
		return log.Add(projectID, actorID, "Member added", map[string]interface{}{
			"member_id": m.ID,
			"user_id":   user.ID,
			"name":      user.Name,
			"role":      role,
		})
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) UpdateRole(ctx context.Context, projectID, memberID, actorID int64, role string) (*domain.ProjectMember, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, ErrRoleRequired
	}

	var m *domain.ProjectMember
	err := s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		var err error
		if m, err = find(tx, projectID, memberID); err != nil {
			return err
		}
		previous := m.Role
		m.Role = role
		if err := tx.Model(m).Update("role", m.Role).Error; err != nil {
			return err
		}
		return log.Add(projectID, actorID, "Member role changed", map[string]interface{}{
			"member_id": m.ID,
			"user_id":   m.UserID,
			"old_role":  previous,
			"new_role":  m.Role,
		})
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Remove(ctx context.Context, projectID, memberID, actorID int64) error {
	return s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		m, err := find(tx, projectID, memberID)
		if err != nil {
			return err
		}
		if err := tx.Delete(m).Error; err != nil {
			return err
		}
		return log.Add(projectID, actorID, "Member removed", map[string]interface{}{
			"member_id": m.ID,
			"user_id":   m.UserID,
		})
	})
}

func find(tx *gorm.DB, projectID, id int64) (*domain.ProjectMember, error) {
	var m domain.ProjectMember
	if err := tx.Where("project_id = ?", projectID).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

package activity

import (
	"context"

	"gorm.io/gorm"

	"crmdesk/internal/domain"
)

// View is an activity row with its author's name.
type View struct {
	domain.ActivityLog
	UserName string `json:"user_name"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListByProject returns the project's activity, newest first. The project
// must already be verified against the caller's workspace.
func (s *Service) ListByProject(ctx context.Context, projectID int64) ([]View, error) {
	views := make([]View, 0)
	err := s.db.WithContext(ctx).
		Table("project_activity_logs").
		Select("project_activity_logs.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = project_activity_logs.user_id").
		Where("project_activity_logs.project_id = ?", projectID).
		Order("project_activity_logs.created_at DESC, project_activity_logs.id DESC").
		Scan(&views).Error
	return views, err
}

// Package dashboard serves the workspace summary counters.
package dashboard

import (
	"context"

	"gorm.io/gorm"

	"crmdesk/internal/access"
	"crmdesk/internal/domain"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Summary counts leads, clients and unfinished tasks of the workspace.
// Revenue is the sum of client total values.
func (s *Service) Summary(ctx context.Context, workspaceID int64) (*Summary, error) {
	db := s.db.WithContext(ctx)
	var out Summary

	if err := db.Model(&domain.Lead{}).Scopes(access.InWorkspace(workspaceID)).Count(&out.Leads).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Client{}).Scopes(access.InWorkspace(workspaceID)).Count(&out.Clients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Client{}).
		Scopes(access.InWorkspace(workspaceID)).
		Select("COALESCE(SUM(total_value), 0)").
		Scan(&out.Revenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Task{}).
		Scopes(access.TasksInWorkspace(workspaceID)).
		Where("tasks.status <> ?", domain.WorkCompleted).
		Count(&out.OpenTasks).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

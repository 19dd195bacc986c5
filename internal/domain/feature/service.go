// Package feature manages the feature list of a project.
package feature

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"crmdesk/internal/domain"
	"crmdesk/internal/domain/activity"
)

type Service struct {
	db       *gorm.DB
	recorder *activity.Recorder
}

func NewService(db *gorm.DB, recorder *activity.Recorder) *Service {
	return &Service{db: db, recorder: recorder}
}

func (s *Service) List(ctx context.Context, projectID int64) ([]domain.Feature, error) {
	items := make([]domain.Feature, 0)
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (s *Service) Create(ctx context.Context, projectID, userID int64, req CreateFeatureRequest) (*domain.Feature, error) {
	item := &domain.Feature{
		ProjectID:   projectID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      domain.WorkPending,
		CreatedBy:   userID,
	}
	if req.Status != "" {
		item.Status = domain.WorkStatus(req.Status)
	}

	err := s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return log.Add(projectID, userID, "Feature added", map[string]interface{}{
			"feature_id": item.ID,
			"title":      item.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, projectID, id, userID int64) error {
	return s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		var item domain.Feature
		if err := tx.Where("project_id = ?", projectID).First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFeatureNotFound
			}
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return log.Add(projectID, userID, "Feature deleted", map[string]interface{}{
			"feature_id": item.ID,
			"title":      item.Title,
		})
	})
}

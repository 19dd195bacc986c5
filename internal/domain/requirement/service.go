package requirement

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"crmdesk/internal/domain"
	"crmdesk/internal/domain/activity"
)

// Service operates on requirements of a project the caller has already
// been verified against.
type Service struct {
	db       *gorm.DB
	recorder *activity.Recorder
}

func NewService(db *gorm.DB, recorder *activity.Recorder) *Service {
	return &Service{db: db, recorder: recorder}
}

func (s *Service) List(ctx context.Context, projectID int64) ([]domain.Requirement, error) {
	items := make([]domain.Requirement, 0)
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (s *Service) Create(ctx context.Context, projectID, userID int64, req CreateRequirementRequest) (*domain.Requirement, error) {
	item := &domain.Requirement{
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
		return log.Add(projectID, userID, "Requirement added", map[string]interface{}{
			"requirement_id": item.ID,
			"title":          item.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, projectID, id, userID int64, req UpdateRequirementRequest) (*domain.Requirement, error) {
	var item *domain.Requirement
	err := s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		var err error
		if item, err = find(tx, projectID, id); err != nil {
			return err
		}
		if req.Title != nil {
			item.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return log.Add(projectID, userID, "Requirement updated", map[string]interface{}{
			"requirement_id": item.ID,
			"title":          item.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) UpdateStatus(ctx context.Context, projectID, id, userID int64, status domain.WorkStatus) (*domain.Requirement, error) {
	var item *domain.Requirement
	err := s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		var err error
		if item, err = find(tx, projectID, id); err != nil {
			return err
		}
		previous := item.Status
		if err := tx.Model(item).Update("status", status).Error; err != nil {
			return err
		}
		item.Status = status
		return log.Add(projectID, userID, "Requirement status changed", map[string]interface{}{
			"requirement_id": item.ID,
			"title":          item.Title,
			"old_status":     previous,
			"new_status":     status,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, projectID, id, userID int64) error {
	return s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		item, err := find(tx, projectID, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(item).Error; err != nil {
			return err
		}
		return log.Add(projectID, userID, "Requirement deleted", map[string]interface{}{
			"requirement_id": item.ID,
			"title":          item.Title,
		})
	})
}

func find(tx *gorm.DB, projectID, id int64) (*domain.Requirement, error) {
	var item domain.Requirement
	if err := tx.Where("project_id = ?", projectID).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequirementNotFound
		}
		return nil, err
	}
	return &item, nil
}

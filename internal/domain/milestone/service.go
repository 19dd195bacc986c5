package milestone

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"crmdesk/internal/domain"
	"crmdesk/internal/domain/activity"
	"crmdesk/internal/pkg/utils"
)

type Service struct {
	db       *gorm.DB
	recorder *activity.Recorder
}

func NewService(db *gorm.DB, recorder *activity.Recorder) *Service {
	return &Service{db: db, recorder: recorder}
}

// List orders by due date, undated milestones last.
func (s *Service) List(ctx context.Context, projectID int64) ([]domain.Milestone, error) {
	items := make([]domain.Milestone, 0)
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (s *Service) Create(ctx context.Context, projectID, userID int64, req CreateMilestoneRequest) (*domain.Milestone, error) {
	due, err := utils.ParseDate(req.DueDate)
	if err != nil {
		return nil, ErrInvalidDueDate
	}

	item := &domain.Milestone{
		ProjectID:   projectID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     due,
		Status:      domain.WorkPending,
	}

	err = s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return log.Add(projectID, userID, "Milestone created", map[string]interface{}{
			"milestone_id": item.ID,
			"title":        item.Title,
			"amount":       item.Amount,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, projectID, id, userID int64, req UpdateMilestoneRequest) (*domain.Milestone, error) {
	var due *time.Time
	if req.DueDate != nil {
		parsed, err := utils.ParseDate(*req.DueDate)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		due = parsed
	}

	var item *domain.Milestone
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
		if req.Amount != nil {
			item.Amount = *req.Amount
		}
		if req.DueDate != nil {
			item.DueDate = due
		}
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return log.Add(projectID, userID, "Milestone updated", map[string]interface{}{
			"milestone_id": item.ID,
			"title":        item.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) UpdateStatus(ctx context.Context, projectID, id, userID int64, status domain.WorkStatus) (*domain.Milestone, error) {
	var item *domain.Milestone
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
		return log.Add(projectID, userID, "Milestone status changed", map[string]interface{}{
			"milestone_id": item.ID,
			"title":        item.Title,
			"old_status":   previous,
			"new_status":   status,
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
		return log.Add(projectID, userID, "Milestone deleted", map[string]interface{}{
			"milestone_id": item.ID,
			"title":        item.Title,
		})
	})
}

func find(tx *gorm.DB, projectID, id int64) (*domain.Milestone, error) {
	var item domain.Milestone
	if err := tx.Where("project_id = ?", projectID).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, err
	}
	return &item, nil
}

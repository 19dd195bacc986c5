package lead

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"crmdesk/internal/access"
	"crmdesk/internal/domain"
)

const defaultSource = "manual"

type Service struct {
	db    *gorm.DB
	guard *access.Guard
}

func NewService(db *gorm.DB, guard *access.Guard) *Service {
	return &Service{db: db, guard: guard}
}

func (s *Service) List(ctx context.Context, workspaceID int64) ([]domain.Lead, error) {
	leads := make([]domain.Lead, 0)
	err := s.db.WithContext(ctx).
		Scopes(access.InWorkspace(workspaceID)).
		Order("created_at DESC, id DESC").
		Find(&leads).Error
	return leads, err
}

func (s *Service) Get(ctx context.Context, workspaceID, id int64) (*domain.Lead, error) {
	return s.guard.Lead(ctx, workspaceID, id)
}

func (s *Service) Create(ctx context.Context, workspaceID int64, req CreateLeadRequest) (*domain.Lead, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = defaultSource
	}

	lead := &domain.Lead{
		WorkspaceID:   workspaceID,
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		Phone:         req.Phone,
		Source:        source,
		Status:        domain.LeadNew,
		ExpectedValue: req.ExpectedValue,
	}
	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *Service) Update(ctx context.Context, workspaceID, id int64, req UpdateLeadRequest) (*domain.Lead, error) {
	lead, err := s.guard.Lead(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		lead.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.ExpectedValue != nil {
		lead.ExpectedValue = *req.ExpectedValue
	}
	if req.Status != nil {
		lead.Status = statusOf(*req.Status)
	}

	if err := s.db.WithContext(ctx).Save(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

// UpdateStatus moves a lead to one of the fixed statuses and returns the
// previous one.
func (s *Service) UpdateStatus(ctx context.Context, workspaceID, id int64, status domain.LeadStatus) (*domain.Lead, domain.LeadStatus, error) {
	if !status.Valid() {
		return nil, "", ErrInvalidStatus
	}

	lead, err := s.guard.Lead(ctx, workspaceID, id)
	if err != nil {
		return nil, "", err
	}
	previous := lead.Status

	if err := s.db.WithContext(ctx).Model(lead).Update("status", status).Error; err != nil {
		return nil, "", err
	}
	lead.Status = status
	return lead, previous, nil
}

// Delete removes a lead and its notes.
func (s *Service) Delete(ctx context.Context, workspaceID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lead, err := s.guard.WithTx(tx).Lead(ctx, workspaceID, id)
		if err != nil {
			return err
		}
		if err := tx.Where("lead_id = ?", lead.ID).Delete(&domain.LeadNote{}).Error; err != nil {
			return err
		}
		return tx.Delete(lead).Error
	})
}

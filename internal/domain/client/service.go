package client

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"crmdesk/internal/access"
	"crmdesk/internal/database"
	"crmdesk/internal/domain"
	"crmdesk/internal/metrics"
)

type Service struct {
	db      *gorm.DB
	guard   *access.Guard
	metrics *metrics.Metrics
}

func NewService(db *gorm.DB, guard *access.Guard, m *metrics.Metrics) *Service {
	return &Service{db: db, guard: guard, metrics: m}
}

func (s *Service) List(ctx context.Context, workspaceID int64) ([]domain.Client, error) {
	clients := make([]domain.Client, 0)
	err := s.db.WithContext(ctx).
		Scopes(access.InWorkspace(workspaceID)).
		Order("created_at DESC, id DESC").
		Find(&clients).Error
	return clients, err
}

func (s *Service) Get(ctx context.Context, workspaceID, id int64) (*domain.Client, error) {
	return s.guard.Client(ctx, workspaceID, id)
}

func (s *Service) Create(ctx context.Context, workspaceID int64, req CreateClientRequest) (*domain.Client, error) {
	client := &domain.Client{
		WorkspaceID: workspaceID,
		Name:        strings.TrimSpace(req.Name),
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		TotalValue:  req.TotalValue,
	}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) Update(ctx context.Context, workspaceID, id int64, req UpdateClientRequest) (*domain.Client, error) {
	client, err := s.guard.Client(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Company != nil {
		client.Company = *req.Company
	}
	if req.TotalValue != nil {
		client.TotalValue = *req.TotalValue
	}

	if err := s.db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes a client without projects and detaches its tasks.
func (s *Service) Delete(ctx context.Context, workspaceID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := s.guard.WithTx(tx).Client(ctx, workspaceID, id)
		if err != nil {
			return err
		}

		var projects int64
		if err := tx.Model(&domain.Project{}).Where("client_id = ?", client.ID).Count(&projects).Error; err != nil {
			return err
		}
		if projects > 0 {
			return ErrClientHasProject
		}

		if err := tx.Model(&domain.Task{}).Where("client_id = ?", client.ID).Update("client_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(client).Error
	})
}

// Convert turns a closed lead into a client. The lead is re-read under a
// row lock and the unique lead_id index backs the duplicate check, so
// concurrent calls create at most one client.
func (s *Service) Convert(ctx context.Context, workspaceID, leadID int64) (*domain.Client, error) {
	var client *domain.Client

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lead, err := s.guard.WithTx(tx).LeadForUpdate(ctx, workspaceID, leadID)
		if err != nil {
			return err
		}
		if lead.Status != domain.LeadClosed {
			return ErrLeadNotClosed
		}
		if lead.Converted {
			return ErrAlreadyConverted
		}

		var existing int64
		if err := tx.Model(&domain.Client{}).Where("lead_id = ?", lead.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyConverted
		}

		c := &domain.Client{
			WorkspaceID: workspaceID,
			LeadID:      &lead.ID,
			Name:        lead.Name,
			Email:       lead.Email,
			Phone:       lead.Phone,
			TotalValue:  lead.ExpectedValue,
		}
		if err := tx.Create(c).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyConverted
			}
			return err
		}

		if err := tx.Model(lead).Update("converted", true).Error; err != nil {
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Event("lead_converted")
	return client, nil
}

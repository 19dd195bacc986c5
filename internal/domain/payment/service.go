package payment

import (
	"context"

	"gorm.io/gorm"

	"crmdesk/internal/domain"
	"crmdesk/internal/domain/activity"
	"crmdesk/internal/metrics"
	"crmdesk/internal/pkg/utils"
)

type Service struct {
	db       *gorm.DB
	projects projectGuard
	recorder *activity.Recorder
	metrics  *metrics.Metrics
}

func NewService(db *gorm.DB, projects projectGuard, recorder *activity.Recorder, m *metrics.Metrics) *Service {
	return &Service{db: db, projects: projects, recorder: recorder, metrics: m}
}

// Record stores a payment against a project of the caller's workspace.
func (s *Service) Record(ctx context.Context, workspaceID, userID int64, req CreatePaymentRequest) (*domain.Payment, error) {
	project, err := s.projects.Project(ctx, workspaceID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	date := utils.Today()
	if parsed, err := utils.ParseDate(req.PaymentDate); err != nil {
		return nil, ErrInvalidDate
	} else if parsed != nil {
		date = *parsed
	}

	payment := &domain.Payment{
		ProjectID:   project.ID,
		WorkspaceID: workspaceID,
		Amount:      req.Amount,
		Type:        domain.PaymentMilestone,
		Status:      domain.PaymentPaid,
		PaymentDate: date,
		Note:        req.Note,
		CreatedBy:   userID,
	}
	if req.PaymentType != "" {
		payment.Type = domain.PaymentType(req.PaymentType)
	}
	if req.Status != "" {
		payment.Status = domain.PaymentStatus(req.Status)
	}

	err = s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return log.Add(project.ID, userID, "Payment recorded", map[string]interface{}{
			"payment_id":   payment.ID,
			"amount":       payment.Amount,
			"payment_type": payment.Type,
			"status":       payment.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Event("payment_recorded")
	return payment, nil
}

// ListByProject returns the project's payments, most recent first.
func (s *Service) ListByProject(ctx context.Context, workspaceID, projectID int64) ([]domain.Payment, error) {
	project, err := s.projects.Project(ctx, workspaceID, projectID)
	if err != nil {
		return nil, err
	}
	return s.ForProject(ctx, project.ID)
}

// ForProject lists payments of an already verified project.
func (s *Service) ForProject(ctx context.Context, projectID int64) ([]domain.Payment, error) {
	payments := make([]domain.Payment, 0)
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("payment_date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

// PaidTotals sums paid payments per project. Projects without paid
// payments are absent from the map.
func (s *Service) PaidTotals(ctx context.Context, projectIDs ...int64) (map[int64]float64, error) {
	totals := make(map[int64]float64, len(projectIDs))
	if len(projectIDs) == 0 {
		return totals, nil
	}

	var rows []struct {
		ProjectID int64
		Total     float64
	}
	err := s.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Select("project_id, COALESCE(SUM(amount), 0) AS total").
		Where("project_id IN ? AND status = ?", projectIDs, domain.PaymentPaid).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		totals[r.ProjectID] = r.Total
	}
	return totals, nil
}

package project

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"crmdesk/internal/access"
	"crmdesk/internal/domain"
	"crmdesk/internal/domain/activity"
	"crmdesk/internal/pkg/utils"
)

type Service struct {
	db       *gorm.DB
	guard    *access.Guard
	payments paymentReader
	recorder *activity.Recorder
	sections Sections
}

func NewService(db *gorm.DB, g *access.Guard, payments paymentReader, recorder *activity.Recorder, sections Sections) *Service {
	return &Service{db: db, guard: g, payments: payments, recorder: recorder, sections: sections}
}

func (s *Service) List(ctx context.Context, workspaceID int64) ([]View, error) {
	var projects []domain.Project
	err := s.db.WithContext(ctx).
		Scopes(access.InWorkspace(workspaceID)).
		Order("created_at DESC, id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return s.views(ctx, projects)
}

func (s *Service) Get(ctx context.Context, workspaceID, id int64) (*View, error) {
	project, err := s.guard.Project(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	return s.View(ctx, project)
}

// View decorates an already verified project.
func (s *Service) View(ctx context.Context, project *domain.Project) (*View, error) {
	views, err := s.views(ctx, []domain.Project{*project})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) Create(ctx context.Context, workspaceID, userID int64, req CreateProjectRequest) (*View, error) {
	start, deadline, err := parseSchedule(req.StartDate, req.Deadline)
	if err != nil {
		return nil, err
	}
	total := *req.TotalAmount
	if req.AdvanceAmount > total {
		return nil, ErrAdvanceTooLarge
	}

	client, err := s.guard.Client(ctx, workspaceID, req.ClientID)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		WorkspaceID: workspaceID,
		ClientID:    client.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		TotalAmount: total,
		Status:      domain.ProjectActive,
		StartDate:   start,
		Deadline:    deadline,
	}
	if req.Status != "" {
		project.Status = domain.ProjectStatus(req.Status)
	}

	err = s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		if err := log.Add(project.ID, userID, "Project created", map[string]interface{}{
			"name":         project.Name,
			"client_id":    client.ID,
			"total_amount": total,
		}); err != nil {
			return err
		}
		if req.AdvanceAmount <= 0 {
			return nil
		}

		advance := &domain.Payment{
			ProjectID:   project.ID,
			WorkspaceID: workspaceID,
			Amount:      req.AdvanceAmount,
			Type:        domain.PaymentAdvance,
			Status:      domain.PaymentPaid,
			PaymentDate: utils.Today(),
			Note:        "Advance payment",
			CreatedBy:   userID,
		}
		if err := tx.Create(advance).Error; err != nil {
			return err
		}
		return log.Add(project.ID, userID, "Payment recorded", map[string]interface{}{
			"payment_id":   advance.ID,
			"amount":       advance.Amount,
			"payment_type": advance.Type,
			"status":       advance.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	view, err := s.View(ctx, project)
	if err != nil {
		return nil, err
	}
	view.ClientName = client.Name
	return view, nil
}

func (s *Service) Update(ctx context.Context, workspaceID, id, userID int64, req UpdateProjectRequest) (*View, error) {
	project, err := s.guard.Project(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	clientChanged := false
	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
		changed = append(changed, "name")
	}
	if req.Description != nil {
		project.Description = *req.Description
		changed = append(changed, "description")
	}
	if req.ClientID != nil && *req.ClientID != project.ClientID {
		client, err := s.guard.Client(ctx, workspaceID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		project.ClientID = client.ID
		clientChanged = true
		changed = append(changed, "client_id")
	}
	if req.TotalAmount != nil {
		project.TotalAmount = *req.TotalAmount
		changed = append(changed, "total_amount")
	}
	if req.Status != nil {
		project.Status = domain.ProjectStatus(*req.Status)
		changed = append(changed, "status")
	}
	if req.StartDate != nil {
		if project.StartDate, err = utils.ParseDate(*req.StartDate); err != nil {
			return nil, ErrInvalidStartDate
		}
		changed = append(changed, "start_date")
	}
	if req.Deadline != nil {
		if project.Deadline, err = utils.ParseDate(*req.Deadline); err != nil {
			return nil, ErrInvalidDeadline
		}
		changed = append(changed, "deadline")
	}
	if project.StartDate != nil && project.Deadline != nil && project.Deadline.Before(*project.StartDate) {
		return nil, ErrDeadlineBefore
	}

	err = s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		// tasks of a project always carry the project's client
		if clientChanged {
			if err := tx.Model(&domain.Task{}).
				Where("project_id = ?", project.ID).
				Update("client_id", project.ClientID).Error; err != nil {
				return err
			}
		}
		return log.Add(project.ID, userID, "Project updated", map[string]interface{}{
			"fields": changed,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, project)
}

// Delete removes the project with its sub-resources and payments. Tasks
// survive with their project link cleared.
func (s *Service) Delete(ctx context.Context, workspaceID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := s.guard.WithTx(tx).Project(ctx, workspaceID, id)
		if err != nil {
			return err
		}

		for _, child := range []interface{}{
			&domain.Requirement{},
			&domain.Feature{},
			&domain.Milestone{},
			&domain.ProjectMember{},
			&domain.Payment{},
			&domain.ActivityLog{},
		} {
			if err := tx.Where("project_id = ?", project.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&domain.Task{}).Where("project_id = ?", project.ID).Update("project_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
}

// Full returns the project with every nested collection. The project must
// already be verified against the caller's workspace.
func (s *Service) Full(ctx context.Context, project *domain.Project) (*Full, error) {
	view, err := s.View(ctx, project)
	if err != nil {
		return nil, err
	}
	full := &Full{
		Project:         *view,
		TotalPaid:       view.TotalPaid,
		RemainingAmount: view.RemainingAmount,
	}

	if full.Requirements, err = s.sections.Requirements.List(ctx, project.ID); err != nil {
		return nil, err
	}
	if full.Features, err = s.sections.Features.List(ctx, project.ID); err != nil {
		return nil, err
	}
	if full.Milestones, err = s.sections.Milestones.List(ctx, project.ID); err != nil {
		return nil, err
	}
	if full.Members, err = s.sections.Members.List(ctx, project.ID); err != nil {
		return nil, err
	}
	if full.Activity, err = s.sections.Activity.ListByProject(ctx, project.ID); err != nil {
		return nil, err
	}
	if full.Payments, err = s.payments.ForProject(ctx, project.ID); err != nil {
		return nil, err
	}
	return full, nil
}

func (s *Service) views(ctx context.Context, projects []domain.Project) ([]View, error) {
	views := make([]View, 0, len(projects))
	if len(projects) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(projects))
	clientIDs := make([]int64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
		clientIDs = append(clientIDs, p.ClientID)
	}

	paid, err := s.payments.PaidTotals(ctx, ids...)
	if err != nil {
		return nil, err
	}

	var clients []domain.Client
	if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", clientIDs).Find(&clients).Error; err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	for _, p := range projects {
		views = append(views, View{
			Project:         p,
			ClientName:      names[p.ClientID],
			TotalPaid:       paid[p.ID],
			RemainingAmount: p.TotalAmount - paid[p.ID],
		})
	}
	return views, nil
}

func parseSchedule(startRaw, deadlineRaw string) (*time.Time, *time.Time, error) {
	start, err := utils.ParseDate(startRaw)
	if err != nil || start == nil {
		return nil, nil, ErrInvalidStartDate
	}
	deadline, err := utils.ParseDate(deadlineRaw)
	if err != nil || deadline == nil {
		return nil, nil, ErrInvalidDeadline
	}
	if deadline.Before(*start) {
		return nil, nil, ErrDeadlineBefore
	}
	return start, deadline, nil
}

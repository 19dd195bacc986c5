package task

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"crmdesk/internal/access"
	"crmdesk/internal/domain"
	"crmdesk/internal/domain/activity"
	"crmdesk/internal/pkg/utils"
)

type Service struct {
	db       *gorm.DB
	guard    *access.Guard
	recorder *activity.Recorder
}

func NewService(db *gorm.DB, guard *access.Guard, recorder *activity.Recorder) *Service {
	return &Service{db: db, guard: guard, recorder: recorder}
}

func (s *Service) query(ctx context.Context, workspaceID int64) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("tasks").
		Select("tasks.*, " +
			"COALESCE(projects.name, '') AS project_name, " +
			"COALESCE(clients.name, '') AS client_name, " +
			"COALESCE(users.name, '') AS assigned_to_name").
		Joins("LEFT JOIN projects ON projects.id = tasks.project_id").
		Joins("LEFT JOIN clients ON clients.id = tasks.client_id").
		Joins("LEFT JOIN users ON users.id = tasks.assigned_to").
		Scopes(access.TasksInWorkspace(workspaceID))
}

func (s *Service) List(ctx context.Context, workspaceID int64) ([]View, error) {
	views := make([]View, 0)
	err := s.query(ctx, workspaceID).
		Order("tasks.created_at DESC, tasks.id DESC").
		Scan(&views).Error
	return views, err
}

func (s *Service) ListByProject(ctx context.Context, workspaceID, projectID int64) ([]View, error) {
	project, err := s.guard.Project(ctx, workspaceID, projectID)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0)
	err = s.query(ctx, workspaceID).
		Where("tasks.project_id = ?", project.ID).
		Order("tasks.created_at DESC, tasks.id DESC").
		Scan(&views).Error
	return views, err
}

func (s *Service) Get(ctx context.Context, workspaceID, id int64) (*domain.Task, error) {
	return s.guard.Task(ctx, workspaceID, id)
}

// Create links the task to a project, a client or both. A project's client
// is inherited when no client is given.
func (s *Service) Create(ctx context.Context, workspaceID, userID int64, req CreateTaskRequest) (*domain.Task, error) {
	if req.ProjectID == nil && req.ClientID == nil {
		return nil, ErrNoParent
	}
	due, err := utils.ParseDate(req.DueDate)
	if err != nil {
		return nil, ErrInvalidDueDate
	}

	task := &domain.Task{
		CreatedBy:   workspaceID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      domain.WorkPending,
		Priority:    domain.PriorityMedium,
		DueDate:     due,
	}
	if req.Status != "" {
		task.Status = domain.WorkStatus(req.Status)
	}
	if req.Priority != "" {
		task.Priority = domain.TaskPriority(req.Priority)
	}

	if req.ProjectID != nil {
		project, err := s.guard.Project(ctx, workspaceID, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		if req.ClientID != nil && *req.ClientID != project.ClientID {
			return nil, ErrClientMismatch
		}
		task.ProjectID = &project.ID
		task.ClientID = &project.ClientID
	} else {
		client, err := s.guard.Client(ctx, workspaceID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		task.ClientID = &client.ID
	}

	if req.AssignedTo != nil {
		user, err := s.guard.WorkspaceUser(ctx, workspaceID, *req.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = &user.ID
	}

	err = s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return logTask(log, task, userID, "Task created", nil)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies a partial change and stores the pre-image in task_history
// within the same transaction.
func (s *Service) Update(ctx context.Context, workspaceID, id, userID int64, req UpdateTaskRequest) (*domain.Task, error) {
	due, err := utils.ParseDate(req.DueDate)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	if req.AssignedTo != nil {
		if _, err := s.guard.WorkspaceUser(ctx, workspaceID, *req.AssignedTo); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, workspaceID, id, userID, "Task updated", func(task *domain.Task) {
		if title := strings.TrimSpace(req.Title); title != "" {
			task.Title = title
		}
		if req.Description != "" {
			task.Description = req.Description
		}
		if req.Status != "" {
			task.Status = domain.WorkStatus(req.Status)
		}
		if req.Priority != "" {
			task.Priority = domain.TaskPriority(req.Priority)
		}
		if due != nil {
			task.DueDate = due
		}
		if req.AssignedTo != nil {
			task.AssignedTo = req.AssignedTo
		}
	})
}

func (s *Service) UpdateStatus(ctx context.Context, workspaceID, id, userID int64, status domain.WorkStatus) (*domain.Task, error) {
	return s.mutate(ctx, workspaceID, id, userID, "Task status changed", func(task *domain.Task) {
		task.Status = status
	})
}

func (s *Service) mutate(ctx context.Context, workspaceID, id, userID int64, action string, apply func(*domain.Task)) (*domain.Task, error) {
	var task *domain.Task
	err := s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		var err error
		if task, err = s.guard.WithTx(tx).Task(ctx, workspaceID, id); err != nil {
			return err
		}

		history := &domain.TaskHistory{
			TaskID:         task.ID,
			OldTitle:       task.Title,
			OldDescription: task.Description,
			OldStatus:      task.Status,
			OldPriority:    task.Priority,
			OldDueDate:     task.DueDate,
			ChangedBy:      userID,
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		previous := task.Status
		apply(task)
		if err := tx.Save(task).Error; err != nil {
			return err
		}

		meta := map[string]interface{}{}
		if previous != task.Status {
			meta["old_status"] = previous
			meta["new_status"] = task.Status
		}
		return logTask(log, task, userID, action, meta)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task. Its history rows are kept.
func (s *Service) Delete(ctx context.Context, workspaceID, id, userID int64) error {
	return s.recorder.Transaction(ctx, s.db, func(tx *gorm.DB, log *activity.Log) error {
		task, err := s.guard.WithTx(tx).Task(ctx, workspaceID, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(task).Error; err != nil {
			return err
		}
		return logTask(log, task, userID, "Task deleted", nil)
	})
}

func (s *Service) History(ctx context.Context, workspaceID, id int64) ([]HistoryView, error) {
	task, err := s.guard.Task(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	views := make([]HistoryView, 0)
	err = s.db.WithContext(ctx).
		Table("task_history").
		Select("task_history.*, COALESCE(users.name, '') AS changed_by_name").
		Joins("LEFT JOIN users ON users.id = task_history.changed_by").
		Where("task_history.task_id = ?", task.ID).
		Order("task_history.created_at DESC, task_history.id DESC").
		Scan(&views).Error
	return views, err
}

// logTask records activity for tasks that belong to a project.
func logTask(log *activity.Log, task *domain.Task, userID int64, action string, extra map[string]interface{}) error {
	if task.ProjectID == nil {
		return nil
	}
	meta := map[string]interface{}{
		"task_id": task.ID,
		"title":   task.Title,
	}
	for k, v := range extra {
		meta[k] = v
	}
	return log.Add(*task.ProjectID, userID, action, meta)
}

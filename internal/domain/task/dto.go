package task

import (
	"time"

	"crmdesk/internal/domain"
)

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"due_date"`
	ProjectID   *int64 `json:"project_id" validate:"omitempty,gt=0"`
	ClientID    *int64 `json:"client_id" validate:"omitempty,gt=0"`
	AssignedTo  *int64 `json:"assigned_to" validate:"omitempty,gt=0"`
}

// UpdateTaskRequest keeps the current value for any empty field.
type UpdateTaskRequest struct {
	Title       string `json:"title" validate:"omitempty,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"due_date"`
	AssignedTo  *int64 `json:"assigned_to" validate:"omitempty,gt=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

// View is a task with the names of what it links to.
type View struct {
	domain.Task
	ProjectName    string `json:"project_name"`
	ClientName     string `json:"client_name"`
	AssignedToName string `json:"assigned_to_name"`
}

type HistoryView struct {
	ID             int64               `json:"id"`
	TaskID         int64               `json:"task_id"`
	OldTitle       string              `json:"old_title"`
	OldDescription string              `json:"old_description"`
	OldStatus      domain.WorkStatus   `json:"old_status"`
	OldPriority    domain.TaskPriority `json:"old_priority"`
	OldDueDate     *time.Time          `json:"old_due_date"`
	ChangedBy      int64               `json:"changed_by"`
	ChangedByName  string              `json:"changed_by_name"`
	CreatedAt      time.Time           `json:"created_at"`
}

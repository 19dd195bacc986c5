package domain

import "time"

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task belongs to the workspace in CreatedBy and optionally to a project
// and a client of that workspace.
type Task struct {
	ID          int64        `gorm:"primaryKey" json:"id"`
	CreatedBy   int64        `gorm:"not null;index" json:"created_by"`
	Title       string       `gorm:"size:200;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      WorkStatus   `gorm:"size:20;not null;default:pending;index" json:"status"`
	Priority    TaskPriority `gorm:"size:10;not null;default:medium" json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	ProjectID   *int64       `gorm:"index" json:"project_id"`
	ClientID    *int64       `gorm:"index" json:"client_id"`
	AssignedTo  *int64       `gorm:"index" json:"assigned_to"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskHistory stores the state of a task before an update.
type TaskHistory struct {
	ID             int64        `gorm:"primaryKey" json:"id"`
	TaskID         int64        `gorm:"not null;index" json:"task_id"`
	OldTitle       string       `json:"old_title"`
	OldDescription string       `json:"old_description"`
	OldStatus      WorkStatus   `json:"old_status"`
	OldPriority    TaskPriority `json:"old_priority"`
	OldDueDate     *time.Time   `json:"old_due_date"`
	ChangedBy      int64        `gorm:"not null" json:"changed_by"`
	CreatedAt      time.Time    `gorm:"index" json:"created_at"`
}

func (TaskHistory) TableName() string { return "task_history" }

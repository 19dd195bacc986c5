package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// WorkStatus is shared by milestones, requirements and tasks.
type WorkStatus string

const (
	WorkPending    WorkStatus = "pending"
	WorkInProgress WorkStatus = "in_progress"
	WorkCompleted  WorkStatus = "completed"
)

func (s WorkStatus) Valid() bool {
	switch s {
	case WorkPending, WorkInProgress, WorkCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	WorkspaceID int64         `gorm:"not null;index" json:"workspace_id"`
	ClientID    int64         `gorm:"not null;index" json:"client_id"`
	Name        string        `gorm:"size:200;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	TotalAmount float64       `gorm:"not null;default:0" json:"total_amount"`
	Status      ProjectStatus `gorm:"size:20;not null;default:active" json:"status"`
	StartDate   *time.Time    `json:"start_date"`
	Deadline    *time.Time    `json:"deadline"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Requirement struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	ProjectID   int64      `gorm:"not null;index" json:"project_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      WorkStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedBy   int64      `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Requirement) TableName() string { return "project_requirements" }

type Feature struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	ProjectID   int64      `gorm:"not null;index" json:"project_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      WorkStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedBy   int64      `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Feature) TableName() string { return "project_features" }

type Milestone struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	ProjectID   int64      `gorm:"not null;index" json:"project_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Amount      float64    `gorm:"not null;default:0" json:"amount"`
	DueDate     *time.Time `json:"due_date"`
	Status      WorkStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Milestone) TableName() string { return "project_milestones" }

// ProjectMember assigns a workspace user to a project. A user appears at
// most once per project.
type ProjectMember struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	ProjectID  int64     `gorm:"not null;uniqueIndex:idx_project_member" json:"project_id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_project_member" json:"user_id"`
	Role       string    `gorm:"size:60;not null;default:member" json:"role"`
	AssignedBy int64     `gorm:"not null" json:"assigned_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActivityLog is an append-only audit row for a project.
type ActivityLog struct {
	ID        int64             `gorm:"primaryKey" json:"id"`
	ProjectID int64             `gorm:"not null;index" json:"project_id"`
	UserID    int64             `gorm:"not null" json:"user_id"`
	Action    string            `gorm:"size:80;not null" json:"action"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "project_activity_logs" }

package project

import (
	"crmdesk/internal/domain"
	"crmdesk/internal/domain/activity"
	"crmdesk/internal/domain/member"
)

type CreateProjectRequest struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=10000"`
	ClientID      int64    `json:"client_id" validate:"required,gt=0"`
	TotalAmount   *float64 `json:"total_amount" validate:"required,gte=0"`
	AdvanceAmount float64  `json:"advance_amount" validate:"gte=0"`
	Status        string   `json:"status" validate:"omitempty,oneof=active on_hold completed cancelled"`
	StartDate     string   `json:"start_date" validate:"required"`
	Deadline      string   `json:"deadline" validate:"required"`
}

// UpdateProjectRequest is a partial update: omitted fields keep their value.
type UpdateProjectRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=10000"`
	ClientID    *int64   `json:"client_id" validate:"omitempty,gt=0"`
	TotalAmount *float64 `json:"total_amount" validate:"omitempty,gte=0"`
	Status      *string  `json:"status" validate:"omitempty,oneof=active on_hold completed cancelled"`
	StartDate   *string  `json:"start_date"`
	Deadline    *string  `json:"deadline"`
}

// View is a project with its derived financial summary. TotalPaid and
// RemainingAmount are computed from paid payments on every read.
type View struct {
	domain.Project
	ClientName      string  `json:"client_name"`
	TotalPaid       float64 `json:"total_paid"`
	RemainingAmount float64 `json:"remaining_amount"`
}

type Full struct {
	Project         View                 `json:"project"`
	Requirements    []domain.Requirement `json:"requirements"`
	Features        []domain.Feature     `json:"features"`
	Milestones      []domain.Milestone   `json:"milestones"`
	Members         []member.View        `json:"members"`
	Activity        []activity.View      `json:"activity"`
	Payments        []domain.Payment     `json:"payments"`
	TotalPaid       float64              `json:"total_paid"`
	RemainingAmount float64              `json:"remaining_amount"`
}

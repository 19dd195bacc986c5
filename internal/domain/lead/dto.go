package lead

import (
	"time"

	"crmdesk/internal/domain"
)

type CreateLeadRequest struct {
	Name          string  `json:"name" validate:"required,max=160"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Phone         string  `json:"phone" validate:"max=40"`
	Source        string  `json:"source" validate:"max=80"`
	ExpectedValue float64 `json:"expected_value" validate:"gte=0"`
}

// UpdateLeadRequest is a partial update: omitted fields keep their value.
type UpdateLeadRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=160"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Phone         *string  `json:"phone" validate:"omitempty,max=40"`
	Source        *string  `json:"source" validate:"omitempty,max=80"`
	ExpectedValue *float64 `json:"expected_value" validate:"omitempty,gte=0"`
	Status        *string  `json:"status" validate:"omitempty,oneof=new contacted qualified closed lost"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified closed lost"`
}

type CreateNoteRequest struct {
	Note string `json:"note" validate:"required,max=5000"`
}

// NoteView is a note with its author's name.
type NoteView struct {
	ID            int64     `json:"id"`
	LeadID        int64     `json:"lead_id"`
	LeadName      string    `json:"lead_name,omitempty"`
	Note          string    `json:"note"`
	CreatedBy     int64     `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
}

func statusOf(s string) domain.LeadStatus { return domain.LeadStatus(s) }

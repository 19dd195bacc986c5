package domain

import "time"

type PaymentType string

const (
	PaymentAdvance   PaymentType = "advance"
	PaymentMilestone PaymentType = "milestone"
	PaymentFinal     PaymentType = "final"
	PaymentOther     PaymentType = "other"
)

type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentPending  PaymentStatus = "pending"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment is money received against a project. Only paid rows count
// toward the project's total paid.
type Payment struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	ProjectID   int64         `gorm:"not null;index" json:"project_id"`
	WorkspaceID int64         `gorm:"not null;index" json:"workspace_id"`
	Amount      float64       `gorm:"not null" json:"amount"`
	Type        PaymentType   `gorm:"column:payment_type;size:20;not null;default:milestone" json:"payment_type"`
	Status      PaymentStatus `gorm:"size:20;not null;default:paid" json:"status"`
	PaymentDate time.Time     `gorm:"not null" json:"payment_date"`
	Note        string        `gorm:"type:text" json:"note"`
	CreatedBy   int64         `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (Payment) TableName() string { return "project_payments" }

package domain

import "time"

// Client is a customer of a workspace. LeadID is unique so a lead can be
// converted at most once.
type Client struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	WorkspaceID int64     `gorm:"not null;index" json:"workspace_id"`
	LeadID      *int64    `gorm:"uniqueIndex" json:"lead_id,omitempty"`
	Name        string    `gorm:"size:160;not null" json:"name"`
	Email       string    `gorm:"size:255" json:"email"`
	Phone       string    `gorm:"size:40" json:"phone"`
	Company     string    `gorm:"size:160" json:"company"`
	TotalValue  float64   `gorm:"not null;default:0" json:"total_value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package domain

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadClosed    LeadStatus = "closed"
	LeadLost      LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadClosed, LeadLost:
		return true
	}
	return false
}

type Lead struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	WorkspaceID   int64      `gorm:"not null;index" json:"workspace_id"`
	Name          string     `gorm:"size:160;not null" json:"name"`
	Email         string     `gorm:"size:255" json:"email"`
	Phone         string     `gorm:"size:40" json:"phone"`
	Source        string     `gorm:"size:80" json:"source"`
	Status        LeadStatus `gorm:"size:20;not null;default:new;index" json:"status"`
	ExpectedValue float64    `gorm:"not null;default:0" json:"expected_value"`
	Converted     bool       `gorm:"not null;default:false" json:"converted"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type LeadNote struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	LeadID    int64     `gorm:"not null;index" json:"lead_id"`
	Note      string    `gorm:"type:text;not null" json:"note"`
	CreatedBy int64     `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

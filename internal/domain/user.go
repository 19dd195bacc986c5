package domain

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"
)

// User is an account. Admins own a workspace; employees belong to the
// workspace of the admin referenced by OwnerID.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"`
	Role         UserRole  `gorm:"size:20;not null;default:admin" json:"role"`
	OwnerID      *int64    `gorm:"index" json:"owner_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

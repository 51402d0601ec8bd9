package models

import "time"

// User roles. Every profile starts unverified; only the platform owner
// identity may promote a user to verified.
const (
	RoleUnverified = "unverified"
	RoleVerified   = "verified"
)

// User represents a platform member keyed by the authenticated caller
// identity string. The identity is assigned once at creation and never reused.
type User struct {
	UserID       string    `gorm:"primaryKey;size:128" json:"user_id"`
	Nickname     string    `gorm:"size:255" json:"nickname"`
	FirstName    string    `gorm:"size:255" json:"first_name"`
	LastName     string    `gorm:"size:255" json:"last_name"`
	Bio          string    `gorm:"type:text" json:"bio"`
	AvatarURL    string    `gorm:"size:512" json:"avatar_url"`
	Role         string    `gorm:"size:32;not null;default:unverified" json:"role"`
	TotalPoint   int64     `gorm:"not null;default:0" json:"total_point"`
	ThreadsOwned int       `gorm:"not null;default:0" json:"threads_owned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsVerified reports whether the user passed platform verification.
func (u User) IsVerified() bool {
	return u.Role == RoleVerified
}

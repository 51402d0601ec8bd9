package models

import "time"

// Space is a named topic grouping threads. Its identifier is the slug of the
// space name, so creation with a colliding name fails instead of overwriting.
// A space is immutable after creation except for its accumulated point total
// and its follower set.
type Space struct {
	SpaceID    string    `gorm:"primaryKey;size:255" json:"space_id"`
	SpaceName  string    `gorm:"size:255;not null" json:"space_name"`
	CreatorID  string    `gorm:"size:128;not null;index" json:"creator_id"`
	TotalPoint int64     `gorm:"not null;default:0" json:"total_point"`
	CreatedAt  time.Time `json:"created_at"`
}

// SpaceFollow records a user subscribing to a space. Following is idempotent;
// the composite unique index backs that up at the storage layer.
type SpaceFollow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SpaceID   string    `gorm:"size:255;not null;uniqueIndex:idx_space_follower" json:"space_id"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_space_follower" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

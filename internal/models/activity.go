package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is the append-only audit trail of platform mutations: profile
// creation, space creation, thread lifecycle transitions and vote casts.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    string            `gorm:"size:128;not null;index" json:"actor_id"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:64;not null;index" json:"entity_type"`
	EntityID   string            `gorm:"size:512" json:"entity_id"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

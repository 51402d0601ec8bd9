package models

import "time"

// Vote records a single weighted vote by a user on a thread. One vote per
// (thread, user) pair, enforced by the composite unique index; votes are
// final for the lifetime of the thread, never updated or withdrawn.
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ThreadID    string    `gorm:"size:512;not null;uniqueIndex:idx_thread_voter" json:"thread_id"`
	UserID      string    `gorm:"size:128;not null;uniqueIndex:idx_thread_voter" json:"user_id"`
	ChoiceIndex int       `gorm:"not null" json:"choice_index"`
	Points      int64     `gorm:"not null" json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

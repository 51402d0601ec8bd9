package models

import (
	"time"

	"gorm.io/datatypes"
)

// ThreadStatus is the lazily computed lifecycle phase of a thread. It is
// never stored; any reader re-derives it from the clock and the closed flag.
type ThreadStatus string

const (
	ThreadStatusUpcoming ThreadStatus = "upcoming"
	ThreadStatusOpen     ThreadStatus = "open"
	ThreadStatusClosed   ThreadStatus = "closed"
)

// Thread is a time-bounded multiple-choice voting item inside a space.
// Choice labels are fixed at creation; ratings accumulate wagered points per
// choice index and are frozen once the thread closes.
type Thread struct {
	ThreadID      string                      `gorm:"primaryKey;size:512" json:"thread_id"`
	Title         string                      `gorm:"size:255;not null" json:"title"`
	Content       string                      `gorm:"type:text" json:"content"`
	MediaLink     string                      `gorm:"size:512" json:"media_link"`
	CreatorID     string                      `gorm:"size:128;not null;index" json:"creator_id"`
	SpaceID       string                      `gorm:"size:255;not null;index" json:"space_id"`
	SpaceName     string                      `gorm:"size:255;not null" json:"space_name"`
	InitPoint     int64                       `gorm:"not null;default:0" json:"init_point"`
	StartTime     int64                       `gorm:"not null" json:"start_time"`
	EndTime       int64                       `gorm:"not null" json:"end_time"`
	ChoiceLabels  datatypes.JSONSlice[string] `json:"choice_labels"`
	ChoiceRatings datatypes.JSONSlice[int64]  `json:"choice_ratings"`
	LastID        int64                       `gorm:"not null;default:0" json:"last_id"`
	Closed        bool                        `gorm:"not null;default:false" json:"closed"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// ChoicesCount returns the number of fixed choices voters pick among.
func (t Thread) ChoicesCount() int {
	return len(t.ChoiceLabels)
}

// StatusAt derives the thread status for the given wall-clock instant in
// milliseconds since epoch. The explicit closed flag always wins; otherwise
// the window bounds are inclusive on both ends.
func (t Thread) StatusAt(nowMs int64) ThreadStatus {
	switch {
	case t.Closed:
		return ThreadStatusClosed
	case nowMs < t.StartTime:
		return ThreadStatusUpcoming
	case nowMs <= t.EndTime:
		return ThreadStatusOpen
	default:
		return ThreadStatusClosed
	}
}

// RatingTotal sums the wagered points across all choices. Together with the
// votes table it backs the conservation invariant: the sum always equals the
// points debited from voters of this thread.
func (t Thread) RatingTotal() int64 {
	var total int64
	for _, points := range t.ChoiceRatings {
		total += points
	}
	return total
}

package dto

import "github.com/openspace-labs/spacevote-api/internal/models"

// ThreadCreateRequest describes the payload for opening a new voting thread.
// Times are milliseconds since epoch; the window may lie entirely in the past
// or future, status is derived lazily.
type ThreadCreateRequest struct {
	Title     string   `json:"title" validate:"required,min=3,max=255"`
	Content   string   `json:"content" validate:"omitempty,max=10000"`
	MediaLink string   `json:"media_link" validate:"omitempty,url,max=512"`
	InitPoint int64    `json:"init_point" validate:"gte=0"`
	SpaceName string   `json:"space_name" validate:"required,min=2,max=255"`
	StartTime int64    `json:"start_time" validate:"gte=0"`
	EndTime   int64    `json:"end_time" validate:"gte=0"`
	Options   []string `json:"options" validate:"required,min=2,dive,required,max=255"`
}

// ThreadResponse is the serialized representation of a thread, including the
// derived status and the per-user vote map.
type ThreadResponse struct {
	ThreadID      string         `json:"thread_id"`
	Title         string         `json:"title"`
	Content       string         `json:"content,omitempty"`
	MediaLink     string         `json:"media_link,omitempty"`
	CreatorID     string         `json:"creator_id"`
	SpaceID       string         `json:"space_id"`
	SpaceName     string         `json:"space_name"`
	InitPoint     int64          `json:"init_point"`
	StartTime     int64          `json:"start_time"`
	EndTime       int64          `json:"end_time"`
	ChoicesCount  int            `json:"choices_count"`
	ChoicesMap    map[int]string `json:"choices_map"`
	ChoicesRating map[int]int64  `json:"choices_rating"`
	UserVotes     map[string]int `json:"user_votes_map"`
	Status        string         `json:"status"`
	Closed        bool           `json:"closed"`
	CreatedAt     int64          `json:"created_at"`
	UpdatedAt     int64          `json:"updated_at"`
}

// NewThreadResponse converts a thread plus its recorded votes into a DTO.
// The status is computed by the caller so every reader derives it from the
// same clock.
func NewThreadResponse(model models.Thread, votes []models.Vote, status models.ThreadStatus) ThreadResponse {
	choices := make(map[int]string, len(model.ChoiceLabels))
	for idx, label := range model.ChoiceLabels {
		choices[idx] = label
	}

	ratings := make(map[int]int64, len(model.ChoiceRatings))
	for idx, points := range model.ChoiceRatings {
		ratings[idx] = points
	}

	userVotes := make(map[string]int, len(votes))
	for _, vote := range votes {
		userVotes[vote.UserID] = vote.ChoiceIndex
	}

	return ThreadResponse{
		ThreadID:      model.ThreadID,
		Title:         model.Title,
		Content:       model.Content,
		MediaLink:     model.MediaLink,
		CreatorID:     model.CreatorID,
		SpaceID:       model.SpaceID,
		SpaceName:     model.SpaceName,
		InitPoint:     model.InitPoint,
		StartTime:     model.StartTime,
		EndTime:       model.EndTime,
		ChoicesCount:  model.ChoicesCount(),
		ChoicesMap:    choices,
		ChoicesRating: ratings,
		UserVotes:     userVotes,
		Status:        string(status),
		Closed:        model.Closed,
		CreatedAt:     epochMillis(model.CreatedAt),
		UpdatedAt:     epochMillis(model.UpdatedAt),
	}
}

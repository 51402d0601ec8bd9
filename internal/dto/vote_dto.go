package dto

import "github.com/openspace-labs/spacevote-api/internal/models"

// VoteRequest describes the payload for casting a weighted vote. Range and
// sign checks are deliberately left to the service so failures surface in the
// ledger's check order, not as generic validation errors.
type VoteRequest struct {
	ChoiceIndex int   `json:"choice_index"`
	Points      int64 `json:"points"`
}

// VoteResponse acknowledges a recorded vote and echoes the voter's remaining
// balance so clients can update without a second round trip.
type VoteResponse struct {
	ThreadID        string `json:"thread_id"`
	UserID          string `json:"user_id"`
	ChoiceIndex     int    `json:"choice_index"`
	Points          int64  `json:"points"`
	RemainingPoints int64  `json:"remaining_points"`
	CreatedAt       int64  `json:"created_at"`
}

// NewVoteResponse converts a recorded vote into a DTO.
func NewVoteResponse(model models.Vote, remaining int64) VoteResponse {
	return VoteResponse{
		ThreadID:        model.ThreadID,
		UserID:          model.UserID,
		ChoiceIndex:     model.ChoiceIndex,
		Points:          model.Points,
		RemainingPoints: remaining,
		CreatedAt:       epochMillis(model.CreatedAt),
	}
}

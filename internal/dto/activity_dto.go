package dto

import "github.com/openspace-labs/spacevote-api/internal/models"

// ActivityListRequest narrows the audit trail listing.
type ActivityListRequest struct {
	Offset     int    `json:"offset" validate:"gte=0"`
	Limit      int    `json:"limit" validate:"gte=0,lte=200"`
	ActorID    string `json:"actor_id" validate:"omitempty,max=128"`
	Action     string `json:"action" validate:"omitempty,max=64"`
	EntityType string `json:"entity_type" validate:"omitempty,max=64"`
}

// ActivityResponse is the serialized representation of an audit entry.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  int64                  `json:"created_at"`
}

// NewActivityResponse converts a model into a DTO.
func NewActivityResponse(model models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         model.ID,
		ActorID:    model.ActorID,
		Action:     model.Action,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		Metadata:   model.Metadata,
		CreatedAt:  epochMillis(model.CreatedAt),
	}
}

// NewActivityResponseSlice converts a slice of models into DTOs.
func NewActivityResponseSlice(entries []models.ActivityLog) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewActivityResponse(entry))
	}

	return responses
}

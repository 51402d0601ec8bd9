package dto

import "github.com/openspace-labs/spacevote-api/internal/models"

// SpaceCreateRequest describes the payload for creating a topic space.
type SpaceCreateRequest struct {
	SpaceName string `json:"space_name" validate:"required,min=2,max=255"`
}

// SpaceResponse is the serialized representation of a space.
type SpaceResponse struct {
	SpaceID    string `json:"space_id"`
	SpaceName  string `json:"space_name"`
	CreatorID  string `json:"creator_id"`
	TotalPoint int64  `json:"total_point"`
	CreatedAt  int64  `json:"created_at"`
}

// NewSpaceResponse converts a model into a DTO.
func NewSpaceResponse(model models.Space) SpaceResponse {
	return SpaceResponse{
		SpaceID:    model.SpaceID,
		SpaceName:  model.SpaceName,
		CreatorID:  model.CreatorID,
		TotalPoint: model.TotalPoint,
		CreatedAt:  epochMillis(model.CreatedAt),
	}
}

// NewSpaceResponseSlice converts a slice of models into DTOs.
func NewSpaceResponseSlice(spaces []models.Space) []SpaceResponse {
	responses := make([]SpaceResponse, 0, len(spaces))
	for _, space := range spaces {
		responses = append(responses, NewSpaceResponse(space))
	}

	return responses
}

package dto

import (
	"time"

	"github.com/openspace-labs/spacevote-api/internal/models"
)

// UserCreateRequest describes the payload for creating the caller's profile.
type UserCreateRequest struct {
	Nickname  string `json:"nickname" validate:"required,min=1,max=255"`
	FirstName string `json:"first_name" validate:"omitempty,max=255"`
	LastName  string `json:"last_name" validate:"omitempty,max=255"`
	Bio       string `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url,max=512"`
}

// UserUpdateRequest describes a partial profile update by the owning user.
type UserUpdateRequest struct {
	Nickname  *string `json:"nickname" validate:"omitempty,min=1,max=255"`
	FirstName *string `json:"first_name" validate:"omitempty,max=255"`
	LastName  *string `json:"last_name" validate:"omitempty,max=255"`
	Bio       *string `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=512"`
}

// UserResponse is the serialized representation returned to API clients.
// Timestamps are milliseconds since epoch.
type UserResponse struct {
	UserID       string `json:"user_id"`
	Nickname     string `json:"nickname"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Bio          string `json:"bio"`
	AvatarURL    string `json:"avatar_url"`
	Role         string `json:"role"`
	TotalPoint   int64  `json:"total_point"`
	ThreadsOwned int    `json:"threads_owned"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		UserID:       model.UserID,
		Nickname:     model.Nickname,
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		Bio:          model.Bio,
		AvatarURL:    model.AvatarURL,
		Role:         model.Role,
		TotalPoint:   model.TotalPoint,
		ThreadsOwned: model.ThreadsOwned,
		CreatedAt:    epochMillis(model.CreatedAt),
		UpdatedAt:    epochMillis(model.UpdatedAt),
	}
}

func epochMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

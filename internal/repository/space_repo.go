package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/openspace-labs/spacevote-api/internal/models"
)

// SpaceRepository provides access to spaces and their follower sets.
type SpaceRepository interface {
	Create(ctx context.Context, space *models.Space) error
	GetByID(ctx context.Context, spaceID string) (models.Space, error)
	List(ctx context.Context, offset, limit int) ([]models.Space, int64, error)
	Follow(ctx context.Context, follow *models.SpaceFollow) error
	IsFollowing(ctx context.Context, spaceID, userID string) (bool, error)
	Followers(ctx context.Context, spaceID string) ([]models.SpaceFollow, error)
}

type spaceRepository struct {
	db *gorm.DB
}

// NewSpaceRepository constructs a space repository.
func NewSpaceRepository(db *gorm.DB) SpaceRepository {
	return &spaceRepository{db: db}
}

func (r *spaceRepository) Create(ctx context.Context, space *models.Space) error {
	return r.db.WithContext(ctx).Create(space).Error
}

func (r *spaceRepository) GetByID(ctx context.Context, spaceID string) (models.Space, error) {
	var space models.Space
	if err := r.db.WithContext(ctx).First(&space, "space_id = ?", spaceID).Error; err != nil {
		return models.Space{}, err
	}

	return space, nil
}

func (r *spaceRepository) List(ctx context.Context, offset, limit int) ([]models.Space, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Space{})

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var spaces []models.Space
	if err := query.Order("created_at ASC, space_id ASC").Find(&spaces).Error; err != nil {
		return nil, 0, err
	}

	return spaces, total, nil
}

func (r *spaceRepository) Follow(ctx context.Context, follow *models.SpaceFollow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *spaceRepository) IsFollowing(ctx context.Context, spaceID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SpaceFollow{}).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *spaceRepository) Followers(ctx context.Context, spaceID string) ([]models.SpaceFollow, error) {
	var followers []models.SpaceFollow
	err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("created_at ASC, id ASC").
		Find(&followers).Error
	if err != nil {
		return nil, err
	}

	return followers, nil
}

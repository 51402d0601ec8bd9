package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/openspace-labs/spacevote-api/internal/models"
)

// ThreadRepository provides access to threads.
type ThreadRepository interface {
	// Create inserts the thread and bumps the creator's owned-thread counter
	// in the same transaction.
	Create(ctx context.Context, thread *models.Thread) error
	GetByID(ctx context.Context, threadID string) (models.Thread, error)
	Exists(ctx context.Context, threadID string) (bool, error)
	Update(ctx context.Context, thread *models.Thread) error
	ListByCreator(ctx context.Context, creatorID string, offset, limit int) ([]models.Thread, error)
	ListIDsBySpace(ctx context.Context, spaceID string) ([]string, error)
}

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository constructs a thread repository.
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(thread).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("user_id = ?", thread.CreatorID).
			UpdateColumn("threads_owned", gorm.Expr("threads_owned + 1")).Error
	})
}

func (r *threadRepository) GetByID(ctx context.Context, threadID string) (models.Thread, error) {
	var thread models.Thread
	if err := r.db.WithContext(ctx).First(&thread, "thread_id = ?", threadID).Error; err != nil {
		return models.Thread{}, err
	}

	return thread, nil
}

func (r *threadRepository) Exists(ctx context.Context, threadID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Thread{}).
		Where("thread_id = ?", threadID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *threadRepository) Update(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Save(thread).Error
}

func (r *threadRepository) ListByCreator(ctx context.Context, creatorID string, offset, limit int) ([]models.Thread, error) {
	query := r.db.WithContext(ctx).Where("creator_id = ?", creatorID)

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var threads []models.Thread
	if err := query.Order("created_at ASC, thread_id ASC").Find(&threads).Error; err != nil {
		return nil, err
	}

	return threads, nil
}

func (r *threadRepository) ListIDsBySpace(ctx context.Context, spaceID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Thread{}).
		Where("space_id = ?", spaceID).
		Order("created_at ASC, thread_id ASC").
		Pluck("thread_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openspace-labs/spacevote-api/internal/models"
)

// Transactional failure modes surfaced by the vote cast. The service layer
// maps these onto its own sentinel errors.
var (
	// ErrDuplicateVote signals the voter already holds a vote on the thread.
	ErrDuplicateVote = errors.New("vote already recorded for this thread and user")
	// ErrInsufficientBalance signals the voter balance cannot cover the wager.
	ErrInsufficientBalance = errors.New("voter balance below wagered points")
	// ErrChoiceOutOfRange signals a choice index outside the thread's choices.
	ErrChoiceOutOfRange = errors.New("choice index out of range")
)

// VoteRepository persists weighted votes and owns the single atomic
// transaction that keeps balances and tallies conserved.
type VoteRepository interface {
	// Cast atomically debits the voter's balance, records the vote, credits
	// the chosen tally and the space point total. Either every write lands
	// or none does.
	Cast(ctx context.Context, vote *models.Vote) error
	HasVoted(ctx context.Context, threadID, userID string) (bool, error)
	ListByThread(ctx context.Context, threadID string) ([]models.Vote, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository constructs a vote repository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Cast(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.Vote{}).
			Where("thread_id = ? AND user_id = ?", vote.ThreadID, vote.UserID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateVote
		}

		// Conditional debit: touches the row only when the balance covers the
		// wager, so total_point can never go negative.
		debit := tx.Model(&models.User{}).
			Where("user_id = ? AND total_point >= ?", vote.UserID, vote.Points).
			UpdateColumn("total_point", gorm.Expr("total_point - ?", vote.Points))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		var thread models.Thread
		if err := tx.First(&thread, "thread_id = ?", vote.ThreadID).Error; err != nil {
			return err
		}

		if vote.ChoiceIndex < 0 || vote.ChoiceIndex >= len(thread.ChoiceRatings) {
			return ErrChoiceOutOfRange
		}

		ratings := thread.ChoiceRatings
		ratings[vote.ChoiceIndex] += vote.Points

		err = tx.Model(&models.Thread{}).
			Where("thread_id = ?", vote.ThreadID).
			UpdateColumn("choice_ratings", ratings).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.Space{}).
			Where("space_id = ?", thread.SpaceID).
			UpdateColumn("total_point", gorm.Expr("total_point + ?", vote.Points)).Error
		if err != nil {
			return err
		}

		return tx.Create(vote).Error
	})
}

func (r *voteRepository) HasVoted(ctx context.Context, threadID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *voteRepository) ListByThread(ctx context.Context, threadID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}

	return votes, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/openspace-labs/spacevote-api/internal/dto"
	"github.com/openspace-labs/spacevote-api/internal/models"
	"github.com/openspace-labs/spacevote-api/internal/observability"
	"github.com/openspace-labs/spacevote-api/internal/repository"
)

// Voting failures, surfaced in the order the ledger checks them.
var (
	// ErrThreadNotOpen indicates a vote outside the thread's open window.
	ErrThreadNotOpen = errors.New("thread is not open for voting")
	// ErrInvalidChoice indicates a choice index outside the thread's choices.
	ErrInvalidChoice = errors.New("choice index is not valid for this thread")
	// ErrAlreadyVoted indicates the caller already voted on this thread.
	ErrAlreadyVoted = errors.New("user already voted on this thread")
	// ErrInsufficientPoints indicates a non-positive wager or a balance too low.
	ErrInsufficientPoints = errors.New("not enough points for this vote")
)

// VoteService exposes the voting ledger: one weighted, final vote per user
// per thread, with balances and tallies conserved.
type VoteService interface {
	Cast(ctx context.Context, voterID, threadID string, payload dto.VoteRequest) (dto.VoteResponse, error)
}

type voteService struct {
	votes     repository.VoteRepository
	threads   repository.ThreadRepository
	users     repository.UserRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewVoteService builds the voting ledger service.
func NewVoteService(votes repository.VoteRepository, threads repository.ThreadRepository, users repository.UserRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) VoteService {
	return &voteService{
		votes:     votes,
		threads:   threads,
		users:     users,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "vote_service").Logger(),
		tracer:    otel.Tracer("github.com/openspace-labs/spacevote-api/internal/service/vote"),
		now:       time.Now,
	}
}

func (s *voteService) Cast(ctx context.Context, voterID, threadID string, payload dto.VoteRequest) (dto.VoteResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.VoteResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "vote.cast", trace.WithAttributes(
		attribute.String("thread.id", threadID),
		attribute.String("user.id", voterID),
		attribute.Int("vote.choice", payload.ChoiceIndex),
	))
	defer span.End()

	thread, err := s.threads.GetByID(spanCtx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.VoteResponse{}, ErrThreadNotFound
		}
		return dto.VoteResponse{}, err
	}

	if thread.StatusAt(s.now().UnixMilli()) != models.ThreadStatusOpen {
		return dto.VoteResponse{}, ErrThreadNotOpen
	}

	if payload.ChoiceIndex < 0 || payload.ChoiceIndex >= thread.ChoicesCount() {
		return dto.VoteResponse{}, ErrInvalidChoice
	}

	voted, err := s.votes.HasVoted(spanCtx, threadID, voterID)
	if err != nil {
		return dto.VoteResponse{}, err
	}
	if voted {
		return dto.VoteResponse{}, ErrAlreadyVoted
	}

	if _, err := s.users.GetByID(spanCtx, voterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.VoteResponse{}, ErrUserNotFound
		}
		return dto.VoteResponse{}, err
	}

	if payload.Points <= 0 {
		return dto.VoteResponse{}, ErrInsufficientPoints
	}

	vote := models.Vote{
		ThreadID:    threadID,
		UserID:      voterID,
		ChoiceIndex: payload.ChoiceIndex,
		Points:      payload.Points,
	}

	// The repository re-checks the duplicate and balance conditions inside
	// the transaction, so racing casts cannot partially apply.
	if err := s.votes.Cast(spanCtx, &vote); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateVote):
			return dto.VoteResponse{}, ErrAlreadyVoted
		case errors.Is(err, repository.ErrInsufficientBalance):
			return dto.VoteResponse{}, ErrInsufficientPoints
		case errors.Is(err, repository.ErrChoiceOutOfRange):
			return dto.VoteResponse{}, ErrInvalidChoice
		default:
			return dto.VoteResponse{}, err
		}
	}

	voter, err := s.users.GetByID(spanCtx, voterID)
	if err != nil {
		return dto.VoteResponse{}, err
	}

	observability.VotesCast().Inc()
	observability.PointsWagered().Add(float64(payload.Points))
	s.recordActivity(spanCtx, voterID, "vote.cast", "thread", threadID, map[string]interface{}{
		"choice_index": payload.ChoiceIndex,
		"points":       payload.Points,
	})
	s.logger.Info().
		Str("thread_id", threadID).
		Str("user_id", voterID).
		Int("choice_index", payload.ChoiceIndex).
		Int64("points", payload.Points).
		Msg("vote recorded")

	return dto.NewVoteResponse(vote, voter.TotalPoint), nil
}

func (s *voteService) recordActivity(ctx context.Context, actorID, action, entityType, entityID string, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	entry := ActivityEntry{ActorID: actorID, Action: action, EntityType: entityType, EntityID: entityID, Metadata: metadata}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

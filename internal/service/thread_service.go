package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openspace-labs/spacevote-api/internal/dto"
	"github.com/openspace-labs/spacevote-api/internal/models"
	"github.com/openspace-labs/spacevote-api/internal/observability"
	"github.com/openspace-labs/spacevote-api/internal/repository"
	"github.com/openspace-labs/spacevote-api/internal/utils"
)

// Thread domain failures.
var (
	// ErrThreadNotFound indicates the requested thread does not exist.
	ErrThreadNotFound = errors.New("thread not found")
	// ErrThreadExists indicates the derived thread id collides with an existing thread.
	ErrThreadExists = errors.New("thread already exists")
	// ErrNotThreadCreator indicates an operation restricted to the thread creator.
	ErrNotThreadCreator = errors.New("caller is not the thread creator")
	// ErrInvalidVoteWindow indicates end_time does not lie after start_time.
	ErrInvalidVoteWindow = errors.New("end time must be after start time")
	// ErrEmptyTitle indicates the title vanished after sanitization.
	ErrEmptyTitle = errors.New("thread title empty after sanitization")
)

// ThreadService exposes the thread lifecycle use-cases.
type ThreadService interface {
	Create(ctx context.Context, creatorID string, payload dto.ThreadCreateRequest) (dto.ThreadResponse, error)
	Get(ctx context.Context, threadID string) (dto.ThreadResponse, error)
	Status(ctx context.Context, threadID string) (models.ThreadStatus, error)
	End(ctx context.Context, callerID, threadID string) (dto.ThreadResponse, error)
	ListByCreator(ctx context.Context, creatorID string, offset, limit int) ([]dto.ThreadResponse, error)
}

type threadService struct {
	threads   repository.ThreadRepository
	spaces    repository.SpaceRepository
	users     repository.UserRepository
	votes     repository.VoteRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewThreadService builds a thread service.
func NewThreadService(threads repository.ThreadRepository, spaces repository.SpaceRepository, users repository.UserRepository, votes repository.VoteRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) ThreadService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &threadService{
		threads:   threads,
		spaces:    spaces,
		users:     users,
		votes:     votes,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "thread_service").Logger(),
		tracer:    otel.Tracer("github.com/openspace-labs/spacevote-api/internal/service/thread"),
		sanitizer: policy,
		now:       time.Now,
	}
}

func (s *threadService) Create(ctx context.Context, creatorID string, payload dto.ThreadCreateRequest) (dto.ThreadResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ThreadResponse{}, err
	}

	if payload.EndTime <= payload.StartTime {
		return dto.ThreadResponse{}, ErrInvalidVoteWindow
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if title == "" {
		return dto.ThreadResponse{}, ErrEmptyTitle
	}

	threadID := utils.DeriveThreadID(title, creatorID)
	spaceID := utils.DeriveSpaceID(payload.SpaceName)

	spanCtx, span := s.tracer.Start(ctx, "thread.create", trace.WithAttributes(
		attribute.String("thread.id", threadID),
		attribute.String("space.id", spaceID),
	))
	defer span.End()

	if _, err := s.users.GetByID(spanCtx, creatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ThreadResponse{}, ErrUserNotFound
		}
		return dto.ThreadResponse{}, err
	}

	// Threads attach to an existing space only; the id is resolved once at
	// creation so later renames of the wire-level name cannot orphan them.
	space, err := s.spaces.GetByID(spanCtx, spaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ThreadResponse{}, ErrSpaceNotFound
		}
		return dto.ThreadResponse{}, err
	}

	exists, err := s.threads.Exists(spanCtx, threadID)
	if err != nil {
		return dto.ThreadResponse{}, err
	}
	if exists {
		return dto.ThreadResponse{}, ErrThreadExists
	}

	thread := models.Thread{
		ThreadID:      threadID,
		Title:         title,
		Content:       strings.TrimSpace(s.sanitizer.Sanitize(payload.Content)),
		MediaLink:     strings.TrimSpace(payload.MediaLink),
		CreatorID:     creatorID,
		SpaceID:       space.SpaceID,
		SpaceName:     space.SpaceName,
		InitPoint:     payload.InitPoint,
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
		ChoiceLabels:  datatypes.NewJSONSlice(payload.Options),
		ChoiceRatings: datatypes.NewJSONSlice(make([]int64, len(payload.Options))),
	}

	if err := s.threads.Create(spanCtx, &thread); err != nil {
		return dto.ThreadResponse{}, err
	}

	observability.ThreadsCreated().Inc()
	s.recordActivity(spanCtx, creatorID, "thread.created", "thread", threadID, map[string]interface{}{
		"space_id": space.SpaceID,
		"choices":  len(payload.Options),
	})
	s.logger.Info().
		Str("thread_id", threadID).
		Str("space_id", space.SpaceID).
		Int("choices", len(payload.Options)).
		Msg("thread created")

	return dto.NewThreadResponse(thread, nil, thread.StatusAt(s.now().UnixMilli())), nil
}

func (s *threadService) Get(ctx context.Context, threadID string) (dto.ThreadResponse, error) {
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ThreadResponse{}, ErrThreadNotFound
		}
		return dto.ThreadResponse{}, err
	}

	votes, err := s.votes.ListByThread(ctx, threadID)
	if err != nil {
		return dto.ThreadResponse{}, err
	}

	return dto.NewThreadResponse(thread, votes, thread.StatusAt(s.now().UnixMilli())), nil
}

func (s *threadService) Status(ctx context.Context, threadID string) (models.ThreadStatus, error) {
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrThreadNotFound
		}
		return "", err
	}

	return thread.StatusAt(s.now().UnixMilli()), nil
}

func (s *threadService) End(ctx context.Context, callerID, threadID string) (dto.ThreadResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "thread.end",
		trace.WithAttributes(attribute.String("thread.id", threadID)))
	defer span.End()

	thread, err := s.threads.GetByID(spanCtx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ThreadResponse{}, ErrThreadNotFound
		}
		return dto.ThreadResponse{}, err
	}

	if thread.CreatorID != callerID {
		return dto.ThreadResponse{}, ErrNotThreadCreator
	}

	// Ending an already closed thread is a no-op success.
	if !thread.Closed {
		thread.Closed = true
		if err := s.threads.Update(spanCtx, &thread); err != nil {
			return dto.ThreadResponse{}, err
		}

		s.recordActivity(spanCtx, callerID, "thread.ended", "thread", threadID, map[string]interface{}{
			"final_total": thread.RatingTotal(),
		})
		s.logger.Info().Str("thread_id", threadID).Msg("thread ended")
	}

	votes, err := s.votes.ListByThread(spanCtx, threadID)
	if err != nil {
		return dto.ThreadResponse{}, err
	}

	return dto.NewThreadResponse(thread, votes, models.ThreadStatusClosed), nil
}

func (s *threadService) ListByCreator(ctx context.Context, creatorID string, offset, limit int) ([]dto.ThreadResponse, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	threads, err := s.threads.ListByCreator(ctx, creatorID, offset, limit)
	if err != nil {
		return nil, err
	}

	nowMs := s.now().UnixMilli()
	responses := make([]dto.ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		votes, err := s.votes.ListByThread(ctx, thread.ThreadID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewThreadResponse(thread, votes, thread.StatusAt(nowMs)))
	}

	return responses, nil
}

func (s *threadService) recordActivity(ctx context.Context, actorID, action, entityType, entityID string, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	entry := ActivityEntry{ActorID: actorID, Action: action, EntityType: entityType, EntityID: entityID, Metadata: metadata}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

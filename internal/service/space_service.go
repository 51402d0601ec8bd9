package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/openspace-labs/spacevote-api/internal/dto"
	"github.com/openspace-labs/spacevote-api/internal/models"
	"github.com/openspace-labs/spacevote-api/internal/repository"
	"github.com/openspace-labs/spacevote-api/internal/utils"
)

const spaceIndexCacheKey = "spaces:index"

// Space domain failures.
var (
	// ErrSpaceExists indicates the derived space id collides with an existing space.
	ErrSpaceExists = errors.New("space already exists")
	// ErrSpaceNotFound indicates the space is absent where it is required.
	ErrSpaceNotFound = errors.New("space not found")
)

// SpaceService exposes space registry use-cases plus the read aggregations
// over spaces: the ordered listing, follower set and per-space thread index.
type SpaceService interface {
	Create(ctx context.Context, creatorID string, payload dto.SpaceCreateRequest) (dto.SpaceResponse, error)
	// Get returns nil without error when the space does not exist; absence is
	// a valid result, not a failure.
	Get(ctx context.Context, spaceID string) (*dto.SpaceResponse, error)
	List(ctx context.Context, offset, limit int) ([]dto.SpaceResponse, int64, error)
	Follow(ctx context.Context, callerID, spaceID string) error
	Subscribers(ctx context.Context, spaceID string) ([]string, error)
	ThreadIDs(ctx context.Context, spaceID string) ([]string, error)
}

type spaceService struct {
	spaces    repository.SpaceRepository
	threads   repository.ThreadRepository
	users     repository.UserRepository
	activity  ActivityRecorder
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewSpaceService builds a space service. The redis client is optional; with
// it the full space index is cached and invalidated on creation.
func NewSpaceService(spaces repository.SpaceRepository, threads repository.ThreadRepository, users repository.UserRepository, activity ActivityRecorder, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) SpaceService {
	return &spaceService{
		spaces:    spaces,
		threads:   threads,
		users:     users,
		activity:  activity,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger.With().Str("component", "space_service").Logger(),
		tracer:    otel.Tracer("github.com/openspace-labs/spacevote-api/internal/service/space"),
	}
}

func (s *spaceService) Create(ctx context.Context, creatorID string, payload dto.SpaceCreateRequest) (dto.SpaceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SpaceResponse{}, err
	}

	spaceID := utils.DeriveSpaceID(payload.SpaceName)

	spanCtx, span := s.tracer.Start(ctx, "space.create",
		trace.WithAttributes(attribute.String("space.id", spaceID)))
	defer span.End()

	if _, err := s.users.GetByID(spanCtx, creatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SpaceResponse{}, ErrUserNotFound
		}
		return dto.SpaceResponse{}, err
	}

	if _, err := s.spaces.GetByID(spanCtx, spaceID); err == nil {
		return dto.SpaceResponse{}, ErrSpaceExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SpaceResponse{}, err
	}

	space := models.Space{
		SpaceID:   spaceID,
		SpaceName: payload.SpaceName,
		CreatorID: creatorID,
	}

	if err := s.spaces.Create(spanCtx, &space); err != nil {
		return dto.SpaceResponse{}, err
	}

	s.invalidateIndex(spanCtx)
	s.recordActivity(spanCtx, creatorID, "space.created", "space", spaceID, nil)
	s.logger.Info().Str("space_id", spaceID).Str("creator_id", creatorID).Msg("space created")

	return dto.NewSpaceResponse(space), nil
}

func (s *spaceService) Get(ctx context.Context, spaceID string) (*dto.SpaceResponse, error) {
	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	response := dto.NewSpaceResponse(space)
	return &response, nil
}

func (s *spaceService) List(ctx context.Context, offset, limit int) ([]dto.SpaceResponse, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	if index, ok := s.cachedIndex(ctx); ok {
		total := int64(len(index))
		if offset >= len(index) {
			return []dto.SpaceResponse{}, total, nil
		}
		end := offset + limit
		if end > len(index) {
			end = len(index)
		}
		return index[offset:end], total, nil
	}

	spaces, total, err := s.spaces.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	s.fillIndexCache(ctx)

	return dto.NewSpaceResponseSlice(spaces), total, nil
}

func (s *spaceService) Follow(ctx context.Context, callerID, spaceID string) error {
	spanCtx, span := s.tracer.Start(ctx, "space.follow",
		trace.WithAttributes(attribute.String("space.id", spaceID), attribute.String("user.id", callerID)))
	defer span.End()

	if _, err := s.spaces.GetByID(spanCtx, spaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSpaceNotFound
		}
		return err
	}

	if _, err := s.users.GetByID(spanCtx, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// Following twice is a no-op success.
	following, err := s.spaces.IsFollowing(spanCtx, spaceID, callerID)
	if err != nil {
		return err
	}
	if following {
		return nil
	}

	follow := models.SpaceFollow{SpaceID: spaceID, UserID: callerID}
	if err := s.spaces.Follow(spanCtx, &follow); err != nil {
		return err
	}

	s.recordActivity(spanCtx, callerID, "space.followed", "space", spaceID, nil)

	return nil
}

func (s *spaceService) Subscribers(ctx context.Context, spaceID string) ([]string, error) {
	if _, err := s.spaces.GetByID(ctx, spaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}

	followers, err := s.spaces.Followers(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	subscribers := make([]string, 0, len(followers))
	for _, follower := range followers {
		subscribers = append(subscribers, follower.UserID)
	}

	return subscribers, nil
}

func (s *spaceService) ThreadIDs(ctx context.Context, spaceID string) ([]string, error) {
	if _, err := s.spaces.GetByID(ctx, spaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}

	ids, err := s.threads.ListIDsBySpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

func (s *spaceService) cachedIndex(ctx context.Context) ([]dto.SpaceResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	cached, err := s.cache.Get(ctx, spaceIndexCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read space index cache")
		}
		return nil, false
	}

	var index []dto.SpaceResponse
	if err := json.Unmarshal([]byte(cached), &index); err != nil {
		return nil, false
	}

	s.logger.Debug().Int("spaces", len(index)).Msg("space index cache hit")
	return index, true
}

func (s *spaceService) fillIndexCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	spaces, _, err := s.spaces.List(ctx, 0, 0)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load spaces for index cache")
		return
	}

	payload, err := json.Marshal(dto.NewSpaceResponseSlice(spaces))
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, spaceIndexCacheKey, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store space index cache")
	}
}

func (s *spaceService) invalidateIndex(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, spaceIndexCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate space index cache")
	}
}

func (s *spaceService) recordActivity(ctx context.Context, actorID, action, entityType, entityID string, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	entry := ActivityEntry{ActorID: actorID, Action: action, EntityType: entityType, EntityID: entityID, Metadata: metadata}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/openspace-labs/spacevote-api/internal/dto"
	"github.com/openspace-labs/spacevote-api/internal/models"
	"github.com/openspace-labs/spacevote-api/internal/repository"
)

// User domain failures.
var (
	// ErrUserNotFound indicates the requested profile does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates the caller identity already has a profile.
	ErrUserExists = errors.New("user already exists")
	// ErrNotPlatformOwner indicates a privileged operation by a non-owner.
	ErrNotPlatformOwner = errors.New("caller is not the platform owner")
)

// UserService exposes profile and balance use-cases.
type UserService interface {
	Create(ctx context.Context, callerID string, payload dto.UserCreateRequest) (dto.UserResponse, error)
	Get(ctx context.Context, userID string) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, callerID string, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	Activate(ctx context.Context, callerID, userID string) (dto.UserResponse, error)
}

type userService struct {
	repo         repository.UserRepository
	activity     ActivityRecorder
	validator    *validator.Validate
	logger       zerolog.Logger
	tracer       trace.Tracer
	sanitizer    *bluemonday.Policy
	ownerID      string
	initialGrant int64
}

// NewUserService builds a user service. ownerID is the platform owner
// identity allowed to verify users; initialGrant is the point balance every
// new profile starts with.
func NewUserService(repo repository.UserRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger, ownerID string, initialGrant int64) UserService {
	return &userService{
		repo:         repo,
		activity:     activity,
		validator:    validate,
		logger:       logger.With().Str("component", "user_service").Logger(),
		tracer:       otel.Tracer("github.com/openspace-labs/spacevote-api/internal/service/user"),
		sanitizer:    bluemonday.StrictPolicy(),
		ownerID:      ownerID,
		initialGrant: initialGrant,
	}
}

func (s *userService) Create(ctx context.Context, callerID string, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "user.create",
		trace.WithAttributes(attribute.String("user.id", callerID)))
	defer span.End()

	if _, err := s.repo.GetByID(spanCtx, callerID); err == nil {
		return dto.UserResponse{}, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	user := models.User{
		UserID:     callerID,
		Nickname:   s.sanitize(payload.Nickname),
		FirstName:  s.sanitize(payload.FirstName),
		LastName:   s.sanitize(payload.LastName),
		Bio:        s.sanitize(payload.Bio),
		AvatarURL:  strings.TrimSpace(payload.AvatarURL),
		Role:       models.RoleUnverified,
		TotalPoint: s.initialGrant,
	}

	if err := s.repo.Create(spanCtx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.recordActivity(spanCtx, callerID, "user.created", "user", callerID, nil)
	s.logger.Info().Str("user_id", callerID).Int64("granted_points", s.initialGrant).Msg("user created")

	return dto.NewUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, userID string) (dto.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, callerID string, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.repo.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if payload.Nickname != nil {
		user.Nickname = s.sanitize(*payload.Nickname)
	}
	if payload.FirstName != nil {
		user.FirstName = s.sanitize(*payload.FirstName)
	}
	if payload.LastName != nil {
		user.LastName = s.sanitize(*payload.LastName)
	}
	if payload.Bio != nil {
		user.Bio = s.sanitize(*payload.Bio)
	}
	if payload.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*payload.AvatarURL)
	}

	if err := s.repo.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("user_id", callerID).Msg("profile updated")

	return dto.NewUserResponse(user), nil
}

func (s *userService) Activate(ctx context.Context, callerID, userID string) (dto.UserResponse, error) {
	if callerID != s.ownerID {
		return dto.UserResponse{}, ErrNotPlatformOwner
	}

	spanCtx, span := s.tracer.Start(ctx, "user.activate",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	user, err := s.repo.GetByID(spanCtx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	// Re-activating an already verified user is a no-op success.
	if user.IsVerified() {
		return dto.NewUserResponse(user), nil
	}

	user.Role = models.RoleVerified
	if err := s.repo.Update(spanCtx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.recordActivity(spanCtx, callerID, "user.verified", "user", userID, nil)
	s.logger.Info().Str("user_id", userID).Msg("user verified")

	return dto.NewUserResponse(user), nil
}

func (s *userService) sanitize(input string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(input))
}

func (s *userService) recordActivity(ctx context.Context, actorID, action, entityType, entityID string, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	entry := ActivityEntry{ActorID: actorID, Action: action, EntityType: entityType, EntityID: entityID, Metadata: metadata}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

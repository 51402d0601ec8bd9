package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/openspace-labs/spacevote-api/internal/dto"
	"github.com/openspace-labs/spacevote-api/internal/models"
	"github.com/openspace-labs/spacevote-api/internal/repository"
)

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]interface{}
}

// ActivityRecorder defines behaviour for recording platform activity.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivityService persists the audit trail and fans events out over NATS.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) ([]dto.ActivityResponse, int64, error)
}

type activityEvent struct {
	Source     string                 `json:"source"`
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	SentAt     time.Time              `json:"sent_at"`
}

type activityService struct {
	repo      repository.ActivityLogRepository
	nats      *nats.Conn
	subject   string
	validator *validator.Validate
	logger    zerolog.Logger
	nodeID    string
}

// NewActivityService constructs the activity service. The NATS connection is
// optional; without it events are only persisted.
func NewActivityService(repo repository.ActivityLogRepository, natsConn *nats.Conn, subject string, validate *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		nats:      natsConn,
		subject:   subject,
		validator: validate,
		logger:    logger.With().Str("component", "activity_service").Logger(),
		nodeID:    uuid.NewString(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) error {
	if strings.TrimSpace(entry.Action) == "" {
		return fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.EntityType) == "" {
		return fmt.Errorf("entity type is required")
	}

	record := models.ActivityLog{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   datatypes.JSONMap(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return fmt.Errorf("failed to persist activity entry: %w", err)
	}

	s.publish(entry)

	return nil
}

// publish fans the event out to subscribers. Delivery is best effort; the
// persisted row is the source of truth.
func (s *activityService) publish(entry ActivityEntry) {
	if s.nats == nil || s.subject == "" {
		return
	}

	event := activityEvent{
		Source:     s.nodeID,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   entry.Metadata,
		SentAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode activity event")
		return
	}

	if err := s.nats.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.subject).Msg("failed to publish activity event")
	}
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) ([]dto.ActivityResponse, int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, 0, err
	}

	filter := repository.ActivityLogFilter{
		Offset:     req.Offset,
		Limit:      req.Limit,
		ActorID:    req.ActorID,
		Action:     req.Action,
		EntityType: req.EntityType,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewActivityResponseSlice(entries), total, nil
}

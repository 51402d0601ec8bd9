package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openspace-labs/spacevote-api/internal/dto"
	"github.com/openspace-labs/spacevote-api/internal/service"
	"github.com/openspace-labs/spacevote-api/internal/utils"
)

// ActivityHandler exposes the audit trail, readable by the platform owner.
type ActivityHandler struct {
	activity service.ActivityService
	ownerID  string
	logger   zerolog.Logger
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(activity service.ActivityService, ownerID string, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		ownerID:  ownerID,
		logger:   logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires activity routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	if callerIDFromContext(c) != h.ownerID {
		return utils.SendError(c, fiber.StatusForbidden, "only the platform owner may read the audit trail")
	}

	from, limit, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	req := dto.ActivityListRequest{
		Offset:     from,
		Limit:      limit,
		ActorID:    c.Query("actor_id"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}

	entries, total, err := h.activity.List(c.UserContext(), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid query")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity")
	}

	meta := fiber.Map{"total": total, "from": from, "count": len(entries)}
	return utils.SendSuccessWithMeta(c, "activity loaded", entries, meta)
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openspace-labs/spacevote-api/internal/dto"
	"github.com/openspace-labs/spacevote-api/internal/service"
	"github.com/openspace-labs/spacevote-api/internal/utils"
)

// SpaceHandler exposes the space registry endpoints.
type SpaceHandler struct {
	spaces service.SpaceService
	logger zerolog.Logger
}

// NewSpaceHandler constructs a space handler.
func NewSpaceHandler(spaces service.SpaceService, logger zerolog.Logger) *SpaceHandler {
	return &SpaceHandler{
		spaces: spaces,
		logger: logger.With().Str("component", "space_handler").Logger(),
	}
}

// Register wires space routes.
func (h *SpaceHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:space_id", h.get)
	router.Post("/:space_id/follow", h.follow)
	router.Get("/:space_id/subscribers", h.subscribers)
	router.Get("/:space_id/threads", h.threads)
}

func (h *SpaceHandler) create(c *fiber.Ctx) error {
	var payload dto.SpaceCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	callerID := callerIDFromContext(c)
	space, err := h.spaces.Create(c.UserContext(), callerID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrSpaceExists):
			return utils.SendError(c, fiber.StatusConflict, "space already exists")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create space")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create space")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "space created", space)
}

// get returns the space, or a success envelope with null data when absent.
func (h *SpaceHandler) get(c *fiber.Ctx) error {
	space, err := h.spaces.Get(c.UserContext(), c.Params("space_id"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load space")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load space")
	}
	if space == nil {
		return utils.SendSuccess(c, "space not found", nil)
	}

	return utils.SendSuccess(c, "space loaded", space)
}

func (h *SpaceHandler) list(c *fiber.Ctx) error {
	from, limit, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	spaces, total, err := h.spaces.List(c.UserContext(), from, limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list spaces")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list spaces")
	}

	meta := fiber.Map{"total": total, "from": from, "count": len(spaces)}
	return utils.SendSuccessWithMeta(c, "spaces loaded", spaces, meta)
}

func (h *SpaceHandler) follow(c *fiber.Ctx) error {
	callerID := callerIDFromContext(c)
	err := h.spaces.Follow(c.UserContext(), callerID, c.Params("space_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSpaceNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "space not found")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to follow space")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to follow space")
		}
	}

	return utils.SendSuccess(c, "space followed", nil)
}

func (h *SpaceHandler) subscribers(c *fiber.Ctx) error {
	subscribers, err := h.spaces.Subscribers(c.UserContext(), c.Params("space_id"))
	if err != nil {
		if errors.Is(err, service.ErrSpaceNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "space not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list subscribers")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list subscribers")
	}

	return utils.SendSuccess(c, "subscribers loaded", subscribers)
}

func (h *SpaceHandler) threads(c *fiber.Ctx) error {
	ids, err := h.spaces.ThreadIDs(c.UserContext(), c.Params("space_id"))
	if err != nil {
		if errors.Is(err, service.ErrSpaceNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "space not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list space threads")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list space threads")
	}

	return utils.SendSuccess(c, "threads loaded", ids)
}

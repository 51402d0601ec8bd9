package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openspace-labs/spacevote-api/internal/dto"
	"github.com/openspace-labs/spacevote-api/internal/service"
	"github.com/openspace-labs/spacevote-api/internal/utils"
)

// UserHandler exposes the account endpoints.
type UserHandler struct {
	users   service.UserService
	threads service.ThreadService
	logger  zerolog.Logger
}

// NewUserHandler constructs a user handler.
func NewUserHandler(users service.UserService, threads service.ThreadService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:   users,
		threads: threads,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires user routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Patch("/me", h.update)
	router.Get("/:user_id", h.get)
	router.Post("/:user_id/activate", h.activate)
	router.Get("/:user_id/threads", h.threadsByCreator)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	callerID := callerIDFromContext(c)
	user, err := h.users.Create(c.UserContext(), callerID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrUserExists):
			return utils.SendError(c, fiber.StatusConflict, "profile already exists")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create user")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "profile created", user)
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load user")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load user")
	}

	return utils.SendSuccess(c, "user loaded", user)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	var payload dto.UserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	callerID := callerIDFromContext(c)
	user, err := h.users.UpdateProfile(c.UserContext(), callerID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update profile")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update profile")
		}
	}

	return utils.SendSuccess(c, "profile updated", user)
}

func (h *UserHandler) activate(c *fiber.Ctx) error {
	callerID := callerIDFromContext(c)
	user, err := h.users.Activate(c.UserContext(), callerID, c.Params("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotPlatformOwner):
			return utils.SendError(c, fiber.StatusForbidden, "only the platform owner may activate users")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to activate user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to activate user")
		}
	}

	return utils.SendSuccess(c, "user activated", user)
}

func (h *UserHandler) threadsByCreator(c *fiber.Ctx) error {
	from, limit, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	threads, err := h.threads.ListByCreator(c.UserContext(), c.Params("user_id"), from, limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list threads by creator")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list threads")
	}

	return utils.SendSuccess(c, "threads loaded", threads)
}

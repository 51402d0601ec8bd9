package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openspace-labs/spacevote-api/internal/dto"
	"github.com/openspace-labs/spacevote-api/internal/service"
	"github.com/openspace-labs/spacevote-api/internal/utils"
)

// ThreadHandler exposes the thread lifecycle and voting endpoints.
type ThreadHandler struct {
	threads service.ThreadService
	votes   service.VoteService
	logger  zerolog.Logger
}

// NewThreadHandler constructs a thread handler.
func NewThreadHandler(threads service.ThreadService, votes service.VoteService, logger zerolog.Logger) *ThreadHandler {
	return &ThreadHandler{
		threads: threads,
		votes:   votes,
		logger:  logger.With().Str("component", "thread_handler").Logger(),
	}
}

// Register wires thread routes.
func (h *ThreadHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/:thread_id", h.get)
	router.Get("/:thread_id/status", h.status)
	router.Post("/:thread_id/end", h.end)
	router.Post("/:thread_id/votes", h.castVote)
}

func (h *ThreadHandler) create(c *fiber.Ctx) error {
	var payload dto.ThreadCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	callerID := callerIDFromContext(c)
	thread, err := h.threads.Create(c.UserContext(), callerID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrInvalidVoteWindow):
			return utils.SendError(c, fiber.StatusBadRequest, "end time must be after start time")
		case errors.Is(err, service.ErrEmptyTitle):
			return utils.SendError(c, fiber.StatusBadRequest, "title must not be empty")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrSpaceNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "space not found")
		case errors.Is(err, service.ErrThreadExists):
			return utils.SendError(c, fiber.StatusConflict, "thread already exists")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create thread")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create thread")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "thread created", thread)
}

func (h *ThreadHandler) get(c *fiber.Ctx) error {
	thread, err := h.threads.Get(c.UserContext(), c.Params("thread_id"))
	if err != nil {
		if errors.Is(err, service.ErrThreadNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "thread not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load thread")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load thread")
	}

	return utils.SendSuccess(c, "thread loaded", thread)
}

func (h *ThreadHandler) status(c *fiber.Ctx) error {
	status, err := h.threads.Status(c.UserContext(), c.Params("thread_id"))
	if err != nil {
		if errors.Is(err, service.ErrThreadNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "thread not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute thread status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute thread status")
	}

	return utils.SendSuccess(c, "status computed", fiber.Map{"status": status})
}

func (h *ThreadHandler) end(c *fiber.Ctx) error {
	callerID := callerIDFromContext(c)
	thread, err := h.threads.End(c.UserContext(), callerID, c.Params("thread_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrThreadNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "thread not found")
		case errors.Is(err, service.ErrNotThreadCreator):
			return utils.SendError(c, fiber.StatusForbidden, "only the thread creator may end it")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to end thread")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to end thread")
		}
	}

	return utils.SendSuccess(c, "thread ended", thread)
}

func (h *ThreadHandler) castVote(c *fiber.Ctx) error {
	var payload dto.VoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	callerID := callerIDFromContext(c)
	vote, err := h.votes.Cast(c.UserContext(), callerID, c.Params("thread_id"), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrThreadNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "thread not found")
		case errors.Is(err, service.ErrThreadNotOpen):
			return utils.SendError(c, fiber.StatusConflict, "thread is not open for voting")
		case errors.Is(err, service.ErrInvalidChoice):
			return utils.SendError(c, fiber.StatusBadRequest, "choice index is not valid")
		case errors.Is(err, service.ErrAlreadyVoted):
			return utils.SendError(c, fiber.StatusConflict, "vote already recorded for this thread")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrInsufficientPoints):
			return utils.SendError(c, fiber.StatusBadRequest, "not enough points for this vote")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to cast vote")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to cast vote")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "vote recorded", vote)
}

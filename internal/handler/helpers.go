package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openspace-labs/spacevote-api/internal/middleware"
)

func callerIDFromContext(c *fiber.Ctx) string {
	if v := c.Locals(middleware.CallerIDKey); v != nil {
		if id, ok := v.(string); ok {
			return strings.TrimSpace(id)
		}
	}
	return ""
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// pagination reads the from/limit query pair used by the listing endpoints.
func pagination(c *fiber.Ctx) (int, int, error) {
	from, err := parseQueryInt(c, "from")
	if err != nil || from < 0 {
		return 0, 0, errors.New("invalid from parameter")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return 0, 0, errors.New("invalid limit parameter")
	}
	return from, limit, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/openspace-labs/spacevote-api/internal/config"
	"github.com/openspace-labs/spacevote-api/internal/handler"
	"github.com/openspace-labs/spacevote-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	UserHandler        *handler.UserHandler
	SpaceHandler       *handler.SpaceHandler
	ThreadHandler      *handler.ThreadHandler
	ActivityHandler    *handler.ActivityHandler
	IdentityMiddleware fiber.Handler
	VoteRateLimiter    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	// Health and metrics stay unauthenticated.
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	identity := deps.IdentityMiddleware
	if identity == nil {
		identity = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.UserHandler != nil {
		users := api.Group("/users", identity)
		deps.UserHandler.Register(users)
	}

	if deps.SpaceHandler != nil {
		spaces := api.Group("/spaces", identity)
		deps.SpaceHandler.Register(spaces)
	}

	if deps.ThreadHandler != nil {
		threads := api.Group("/threads", identity)
		if deps.VoteRateLimiter != nil {
			threads.Use(deps.VoteRateLimiter)
		}
		deps.ThreadHandler.Register(threads)
	}

	if deps.ActivityHandler != nil {
		activity := api.Group("/activity", identity)
		deps.ActivityHandler.Register(activity)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/openspace-labs/spacevote-api/internal/config"
	"github.com/openspace-labs/spacevote-api/internal/database"
	"github.com/openspace-labs/spacevote-api/internal/handler"
	"github.com/openspace-labs/spacevote-api/internal/middleware"
	"github.com/openspace-labs/spacevote-api/internal/models"
	"github.com/openspace-labs/spacevote-api/internal/repository"
	"github.com/openspace-labs/spacevote-api/internal/router"
	"github.com/openspace-labs/spacevote-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Space{},
		&models.SpaceFollow{},
		&models.Thread{},
		&models.Vote{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// NATS is optional; without it activity events are only persisted.
	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, natsConn, cfg.ActivitySubject, validate, logger)
	userService := service.NewUserService(userRepo, activityService, validate, logger, cfg.PlatformOwnerID, cfg.InitialPointGrant)
	spaceService := service.NewSpaceService(spaceRepo, threadRepo, userRepo, activityService, redisClient, cfg.SpaceCacheTTL, validate, logger)
	threadService := service.NewThreadService(threadRepo, spaceRepo, userRepo, voteRepo, activityService, validate, logger)
	voteService := service.NewVoteService(voteRepo, threadRepo, userRepo, activityService, validate, logger)

	userHandler := handler.NewUserHandler(userService, threadService, logger)
	spaceHandler := handler.NewSpaceHandler(spaceService, logger)
	threadHandler := handler.NewThreadHandler(threadService, voteService, logger)
	activityHandler := handler.NewActivityHandler(activityService, cfg.PlatformOwnerID, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		UserHandler:        userHandler,
		SpaceHandler:       spaceHandler,
		ThreadHandler:      threadHandler,
		ActivityHandler:    activityHandler,
		IdentityMiddleware: middleware.Identity(cfg.JWTSecret),
		VoteRateLimiter:    middleware.RateLimit("threads", cfg.VoteRateLimit, cfg.VoteRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

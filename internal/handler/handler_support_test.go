package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openspace-labs/spacevote-api/internal/handler"
	"github.com/openspace-labs/spacevote-api/internal/middleware"
	"github.com/openspace-labs/spacevote-api/internal/models"
	"github.com/openspace-labs/spacevote-api/internal/repository"
	"github.com/openspace-labs/spacevote-api/internal/service"
)

const testPlatformOwner = "owner.spacevote"

// envelope mirrors the JSON response wrapper for decoding in tests.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Message string          `json:"message"`
}

type testApp struct {
	app *fiber.App
	db  *gorm.DB
}

// newTestApp builds the full handler stack against an in-memory sqlite
// database. Identity is stubbed: the caller id comes from the X-Caller-ID
// header instead of a signed token.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Space{},
		&models.SpaceFollow{},
		&models.Thread{},
		&models.Vote{},
		&models.ActivityLog{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	log := zerolog.Nop()

	userRepo := repository.NewUserRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, nil, "", validate, log)
	userService := service.NewUserService(userRepo, activityService, validate, log, testPlatformOwner, 1000)
	spaceService := service.NewSpaceService(spaceRepo, threadRepo, userRepo, activityService, nil, time.Minute, validate, log)
	threadService := service.NewThreadService(threadRepo, spaceRepo, userRepo, voteRepo, activityService, validate, log)
	voteService := service.NewVoteService(voteRepo, threadRepo, userRepo, activityService, validate, log)

	app := fiber.New()

	identity := func(c *fiber.Ctx) error {
		if caller := strings.TrimSpace(c.Get("X-Caller-ID")); caller != "" {
			c.Locals(middleware.CallerIDKey, caller)
		}
		return c.Next()
	}

	api := app.Group("/api/v1", identity)
	handler.NewUserHandler(userService, threadService, log).Register(api.Group("/users"))
	handler.NewSpaceHandler(spaceService, log).Register(api.Group("/spaces"))
	handler.NewThreadHandler(threadService, voteService, log).Register(api.Group("/threads"))
	handler.NewActivityHandler(activityService, testPlatformOwner, log).Register(api.Group("/activity"))

	return &testApp{app: app, db: db}
}

func (ta *testApp) request(t *testing.T, method, path, caller string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != "" {
		req.Header.Set("X-Caller-ID", caller)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()

	return resp, env
}

func (ta *testApp) createUser(t *testing.T, userID, nickname string) {
	t.Helper()
	resp, _ := ta.request(t, http.MethodPost, "/api/v1/users", userID, fiber.Map{"nickname": nickname})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func (ta *testApp) createSpace(t *testing.T, creatorID, name string) {
	t.Helper()
	resp, _ := ta.request(t, http.MethodPost, "/api/v1/spaces", creatorID, fiber.Map{"space_name": name})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func (ta *testApp) createThread(t *testing.T, creatorID string, body fiber.Map) string {
	t.Helper()
	resp, env := ta.request(t, http.MethodPost, "/api/v1/threads", creatorID, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var thread struct {
		ThreadID string `json:"thread_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &thread))
	return thread.ThreadID
}

// openThreadBody returns a creation payload whose window surrounds the
// current wall clock.
func openThreadBody(title, spaceName string) fiber.Map {
	now := time.Now().UnixMilli()
	return fiber.Map{
		"title":      title,
		"space_name": spaceName,
		"start_time": now - int64(time.Hour/time.Millisecond),
		"end_time":   now + int64(time.Hour/time.Millisecond),
		"options":    []string{"No", "Yes"},
	}
}

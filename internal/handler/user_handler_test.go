package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestUserEndpointsProfileLifecycle(t *testing.T) {
	ta := newTestApp(t)

	resp, env := ta.request(t, http.MethodPost, "/api/v1/users", "alice.near", fiber.Map{
		"nickname": "Alice",
		"bio":      "forecaster",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		UserID     string `json:"user_id"`
		Role       string `json:"role"`
		TotalPoint int64  `json:"total_point"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, "alice.near", created.UserID)
	require.Equal(t, "unverified", created.Role)
	require.Equal(t, int64(1000), created.TotalPoint)

	// Creating the same profile again conflicts.
	resp, _ = ta.request(t, http.MethodPost, "/api/v1/users", "alice.near", fiber.Map{"nickname": "Alice"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = ta.request(t, http.MethodGet, "/api/v1/users/alice.near", "alice.near", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = ta.request(t, http.MethodGet, "/api/v1/users/ghost.near", "alice.near", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, env = ta.request(t, http.MethodPatch, "/api/v1/users/me", "alice.near", fiber.Map{
		"bio": "updated bio",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated struct {
		Bio      string `json:"bio"`
		Nickname string `json:"nickname"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, "updated bio", updated.Bio)
	require.Equal(t, "Alice", updated.Nickname)
}

func TestUserEndpointsRejectInvalidPayload(t *testing.T) {
	ta := newTestApp(t)

	resp, _ := ta.request(t, http.MethodPost, "/api/v1/users", "alice.near", fiber.Map{"nickname": ""})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUserActivateEndpoint(t *testing.T) {
	ta := newTestApp(t)
	ta.createUser(t, "alice.near", "Alice")

	// A regular user cannot activate anyone.
	resp, _ := ta.request(t, http.MethodPost, "/api/v1/users/alice.near/activate", "bob.near", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env := ta.request(t, http.MethodPost, "/api/v1/users/alice.near/activate", testPlatformOwner, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var activated struct {
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &activated))
	require.Equal(t, "verified", activated.Role)

	resp, _ = ta.request(t, http.MethodPost, "/api/v1/users/ghost.near/activate", testPlatformOwner, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUserThreadsListing(t *testing.T) {
	ta := newTestApp(t)
	ta.createUser(t, "alice.near", "Alice")
	ta.createSpace(t, "alice.near", "crypto trading")

	ta.createThread(t, "alice.near", openThreadBody("First question", "crypto trading"))
	ta.createThread(t, "alice.near", openThreadBody("Second question", "crypto trading"))

	resp, env := ta.request(t, http.MethodGet, "/api/v1/users/alice.near/threads", "alice.near", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var threads []struct {
		ThreadID  string `json:"thread_id"`
		CreatorID string `json:"creator_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &threads))
	require.Len(t, threads, 2)

	resp, env = ta.request(t, http.MethodGet, "/api/v1/users/alice.near/threads?from=1&limit=1", "alice.near", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &threads))
	require.Len(t, threads, 1)

	resp, _ = ta.request(t, http.MethodGet, "/api/v1/users/alice.near/threads?from=-1", "alice.near", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

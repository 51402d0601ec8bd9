package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestSpaceEndpointsRegistry(t *testing.T) {
	ta := newTestApp(t)
	ta.createUser(t, "alice.near", "Alice")

	resp, env := ta.request(t, http.MethodPost, "/api/v1/spaces", "alice.near", fiber.Map{
		"space_name": "crypto trading",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		SpaceID   string `json:"space_id"`
		SpaceName string `json:"space_name"`
		CreatorID string `json:"creator_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, "crypto-trading", created.SpaceID)
	require.Equal(t, "alice.near", created.CreatorID)

	// The derived id collides regardless of name casing.
	resp, _ = ta.request(t, http.MethodPost, "/api/v1/spaces", "alice.near", fiber.Map{
		"space_name": "Crypto Trading",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// A creator without a profile is rejected.
	resp, _ = ta.request(t, http.MethodPost, "/api/v1/spaces", "ghost.near", fiber.Map{
		"space_name": "ghost town",
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSpaceGetAbsentReturnsNullData(t *testing.T) {
	ta := newTestApp(t)
	ta.createUser(t, "alice.near", "Alice")

	resp, env := ta.request(t, http.MethodGet, "/api/v1/spaces/never-made", "alice.near", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, env.Success)
	require.Equal(t, "null", string(env.Data))
}

func TestSpaceListPagination(t *testing.T) {
	ta := newTestApp(t)
	ta.createUser(t, "alice.near", "Alice")

	for _, name := range []string{"alpha space", "beta space", "gamma space"} {
		ta.createSpace(t, "alice.near", name)
	}

	resp, env := ta.request(t, http.MethodGet, "/api/v1/spaces?from=1&limit=1", "alice.near", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var spaces []struct {
		SpaceID string `json:"space_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &spaces))
	require.Len(t, spaces, 1)
	require.Equal(t, "beta-space", spaces[0].SpaceID)

	var meta struct {
		Total int64 `json:"total"`
		From  int   `json:"from"`
		Count int   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Meta, &meta))
	require.Equal(t, int64(3), meta.Total)
	require.Equal(t, 1, meta.From)
	require.Equal(t, 1, meta.Count)
}

func TestSpaceFollowAndSubscribers(t *testing.T) {
	ta := newTestApp(t)
	ta.createUser(t, "alice.near", "Alice")
	ta.createUser(t, "bob.near", "Bob")
	ta.createSpace(t, "alice.near", "crypto trading")

	resp, _ := ta.request(t, http.MethodPost, "/api/v1/spaces/crypto-trading/follow", "bob.near", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Idempotent.
	resp, _ = ta.request(t, http.MethodPost, "/api/v1/spaces/crypto-trading/follow", "bob.near", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := ta.request(t, http.MethodGet, "/api/v1/spaces/crypto-trading/subscribers", "alice.near", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var subscribers []string
	require.NoError(t, json.Unmarshal(env.Data, &subscribers))
	require.Equal(t, []string{"bob.near"}, subscribers)

	resp, _ = ta.request(t, http.MethodPost, "/api/v1/spaces/never-made/follow", "bob.near", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSpaceThreadIndex(t *testing.T) {
	ta := newTestApp(t)
	ta.createUser(t, "alice.near", "Alice")
	ta.createSpace(t, "alice.near", "crypto trading")

	first := ta.createThread(t, "alice.near", openThreadBody("First question", "crypto trading"))
	second := ta.createThread(t, "alice.near", openThreadBody("Second question", "crypto trading"))

	resp, env := ta.request(t, http.MethodGet, "/api/v1/spaces/crypto-trading/threads", "alice.near", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ids []string
	require.NoError(t, json.Unmarshal(env.Data, &ids))
	require.ElementsMatch(t, []string{first, second}, ids)

	resp, _ = ta.request(t, http.MethodGet, "/api/v1/spaces/never-made/threads", "alice.near", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

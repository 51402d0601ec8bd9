package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "identity-test-secret"

func newIdentityApp() *fiber.App {
	app := fiber.New()
	app.Get("/whoami", Identity(testSecret), func(c *fiber.Ctx) error {
		callerID, _ := c.Locals(CallerIDKey).(string)
		return c.SendString(callerID)
	})
	return app
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIdentityBindsTokenSubject(t *testing.T) {
	app := newIdentityApp()

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "alice.near",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	require.Equal(t, "alice.near", string(body[:n]))
}

func TestIdentityRejectsMissingHeader(t *testing.T) {
	app := newIdentityApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIdentityRejectsWrongSecret(t *testing.T) {
	app := newIdentityApp()

	token := signToken(t, "some-other-secret", jwt.MapClaims{"sub": "alice.near"})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIdentityRejectsEmptySubject(t *testing.T) {
	app := newIdentityApp()

	token := signToken(t, testSecret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatsa-backend/config"
	"chatsa-backend/middleware"
)

// sessionAs injects an authenticated identity the way RequireAuth does,
// without a database round trip
func sessionAs(userID, email string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("email", email)
		return c.Next()
	}
}

func TestAdminGate(t *testing.T) {
	cfg := &config.Config{AdminEmails: []string{"admin@example.com"}}

	// Same chain main.go mounts; tests substitute the identity stub for
	// OptionalAuth where an authenticated caller is needed
	newApp := func(identity fiber.Handler) *fiber.App {
		if identity == nil {
			identity = middleware.OptionalAuth
		}
		app := fiber.New()
		app.Get("/api/admin/auth", identity, middleware.RequireAdmin(cfg), AdminAuth)
		return app
	}

	t.Run("allow-listed email is admin", func(t *testing.T) {
		app := newApp(sessionAs("u1", "admin@example.com"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/auth", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body["is_admin"])
	})

	t.Run("other authenticated caller gets 403", func(t *testing.T) {
		app := newApp(sessionAs("u2", "user@example.com"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/auth", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["is_admin"])
	})

	t.Run("cookie-less caller gets 403 with is_admin false", func(t *testing.T) {
		app := newApp(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/auth", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["is_admin"])
	})
}

func TestRequireAuthWithoutCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/private", middleware.RequireAuth, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Authentication required", body["error"])
}

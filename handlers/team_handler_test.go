package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatsa-backend/config"
)

// Validation must reject bad input before any database access, so these
// run without a backing store.

func TestUpdateTeamValidation(t *testing.T) {
	app := fiber.New()
	app.Put("/api/team/update", sessionAs("u1", "user@example.com"), UpdateTeam)

	t.Run("missing teamId names the field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/team/update",
			strings.NewReader(`{"name":"Acme"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body["error"], "teamId")
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/team/update",
			strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCreateChatbotValidation(t *testing.T) {
	app := fiber.New()
	app.Post("/api/chatbot", sessionAs("u1", "user@example.com"), CreateChatbot)

	post := func(payload string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("missing team_id", func(t *testing.T) {
		resp := post(`{"name":"Support Bot"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body["error"], "team_id")
	})

	t.Run("missing name", func(t *testing.T) {
		resp := post(`{"team_id":"t-1"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body["error"], "name")
	})
}

func TestFacebookTokenExchangeValidation(t *testing.T) {
	app := fiber.New()
	app.Post("/api/auth/facebook", FacebookTokenExchange(&config.Config{}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/facebook",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "token")
}

package webhooks

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatsa-backend/config"
)

func newWebhookApp() (*fiber.App, *config.Config) {
	cfg := &config.Config{
		VerifyToken:       "verify-me",
		FacebookAppSecret: "app-secret",
	}
	app := fiber.New()
	RegisterRoutes(app, cfg)
	return app, cfg
}

func TestVerifyWebhookHandshake(t *testing.T) {
	app, _ := newWebhookApp()

	t.Run("echoes challenge for the right token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/api/webhook/facebook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=1158201444", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "1158201444", string(body))
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/api/webhook/facebook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=1158201444", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("rejects a missing mode", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/api/webhook/facebook?hub.verify_token=verify-me&hub.challenge=x", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestHandleWebhookEvent(t *testing.T) {
	app, cfg := newWebhookApp()

	post := func(body []byte, sign bool) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/webhook/facebook", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if sign {
			req.Header.Set("X-Hub-Signature-256", signBody(body, cfg.FacebookAppSecret))
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("unsigned payload rejected", func(t *testing.T) {
		resp := post([]byte(`{"object":"page","entry":[]}`), false)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("signed page event acknowledged", func(t *testing.T) {
		resp := post([]byte(`{"object":"page","entry":[]}`), true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"status":"ok"}`, string(body))
	})

	t.Run("non-page object not acknowledged", func(t *testing.T) {
		resp := post([]byte(`{"object":"user","entry":[]}`), true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed signed body rejected", func(t *testing.T) {
		resp := post([]byte(`not json`), true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

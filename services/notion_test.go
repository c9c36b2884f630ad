package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNotionAuthorizeURL(t *testing.T) {
	raw := BuildNotionAuthorizeURL("client-123", "https://chatsa.co/api/auth/notion/callback")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/v1/oauth/authorize", parsed.Path)
	q := parsed.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "user", q.Get("owner"))
	assert.Equal(t, "https://chatsa.co/api/auth/notion/callback", q.Get("redirect_uri"))

	// Purely deterministic construction
	assert.Equal(t, raw, BuildNotionAuthorizeURL("client-123", "https://chatsa.co/api/auth/notion/callback"))
}

func TestExchangeNotionCode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/token", r.URL.Path)
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "client-123", user)
			assert.Equal(t, "secret-456", pass)

			w.Write([]byte(`{"access_token":"tok","workspace_id":"ws-1","workspace_name":"Acme Docs","bot_id":"bot-1"}`))
		}))
		defer server.Close()

		orig := notionOAuthBase
		notionOAuthBase = server.URL
		defer func() { notionOAuthBase = orig }()

		token, err := ExchangeNotionCode(context.Background(), "the-code", "client-123", "secret-456", "https://chatsa.co/cb")
		require.NoError(t, err)
		assert.Equal(t, "tok", token.AccessToken)
		assert.Equal(t, "Acme Docs", token.WorkspaceName)
	})

	t.Run("upstream failure is generic", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client","error_description":"internal detail"}`))
		}))
		defer server.Close()

		orig := notionOAuthBase
		notionOAuthBase = server.URL
		defer func() { notionOAuthBase = orig }()

		_, err := ExchangeNotionCode(context.Background(), "the-code", "client-123", "secret-456", "https://chatsa.co/cb")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotionExchange)
		assert.NotContains(t, err.Error(), "internal detail")
	})
}

package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withGraphServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	orig := graphAPIBase
	graphAPIBase = server.URL
	t.Cleanup(func() { graphAPIBase = orig })
}

func TestExchangeLongLivedToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		withGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/oauth/access_token", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "fb_exchange_token", q.Get("grant_type"))
			assert.Equal(t, "app-id", q.Get("client_id"))
			assert.Equal(t, "short-token", q.Get("fb_exchange_token"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"long-token","expires_in":5183944}`))
		})

		token, err := ExchangeLongLivedToken(context.Background(), "short-token", "app-id", "app-secret")
		require.NoError(t, err)
		assert.Equal(t, "long-token", token.AccessToken)
		assert.Equal(t, int64(5183944), token.ExpiresIn)
	})

	t.Run("upstream failure never leaks the response body", func(t *testing.T) {
		const upstreamDetail = "OAuthException: invalid client_secret deadbeef"
		withGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(upstreamDetail))
		})

		token, err := ExchangeLongLivedToken(context.Background(), "short-token", "app-id", "app-secret")
		require.Error(t, err)
		assert.Nil(t, token)
		assert.ErrorIs(t, err, ErrTokenExchange)
		assert.NotContains(t, err.Error(), upstreamDetail)
		assert.NotContains(t, err.Error(), "deadbeef")
	})

	t.Run("malformed body is a generic failure", func(t *testing.T) {
		withGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		})

		_, err := ExchangeLongLivedToken(context.Background(), "short-token", "app-id", "app-secret")
		assert.ErrorIs(t, err, ErrTokenExchange)
	})

	t.Run("empty token in body is a failure", func(t *testing.T) {
		withGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"expires_in":100}`))
		})

		_, err := ExchangeLongLivedToken(context.Background(), "short-token", "app-id", "app-secret")
		assert.ErrorIs(t, err, ErrTokenExchange)
	})
}

func TestGetBusinessAccounts(t *testing.T) {
	withGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/businesses", r.URL.Path)
		assert.Equal(t, "the-token", r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"1","name":"Acme"},{"id":"2","name":"Globex"}]}`))
	})

	accounts, err := GetBusinessAccounts(context.Background(), "the-token")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Acme", accounts[0].Name)
	assert.Equal(t, "2", accounts[1].ID)
}

func TestPostToPageFeed(t *testing.T) {
	t.Run("returns platform post id", func(t *testing.T) {
		withGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/12345/feed", r.URL.Path)
			w.Write([]byte(`{"id":"12345_67890"}`))
		})

		post, err := PostToPageFeed(context.Background(), "12345", "hello", "page-token")
		require.NoError(t, err)
		assert.Equal(t, "12345_67890", post.ID)
	})

	t.Run("failure embeds the platform response", func(t *testing.T) {
		withGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"message":"permissions error"}}`))
		})

		_, err := PostToPageFeed(context.Background(), "12345", "hello", "page-token")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "permissions error"))
	})
}

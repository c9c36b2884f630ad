package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// notionOAuthBase is a var so tests can point it at a local server
var notionOAuthBase = "https://api.notion.com/v1/oauth"

var notionClient = &http.Client{Timeout: 10 * time.Second}

// ErrNotionExchange is the caller-facing code exchange failure; the
// upstream response never reaches the client.
var ErrNotionExchange = errors.New("notion code exchange failed")

// BuildNotionAuthorizeURL constructs the Notion OAuth authorization URL.
// Pure URL construction, no state kept.
func BuildNotionAuthorizeURL(clientID, redirectURI string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("response_type", "code")
	q.Set("owner", "user")
	q.Set("redirect_uri", redirectURI)

	return fmt.Sprintf("%s/authorize?%s", notionOAuthBase, q.Encode())
}

// NotionToken is the workspace grant returned by the code exchange
type NotionToken struct {
	AccessToken   string `json:"access_token"`
	WorkspaceID   string `json:"workspace_id"`
	WorkspaceName string `json:"workspace_name"`
	BotID         string `json:"bot_id"`
}

// ExchangeNotionCode trades an authorization code for a workspace token.
// Notion authenticates the app with Basic auth over client id and secret.
func ExchangeNotionCode(ctx context.Context, code, clientID, clientSecret, redirectURI string) (*NotionToken, error) {
	payload := map[string]string{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": redirectURI,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrNotionExchange
	}

	req, err := http.NewRequestWithContext(ctx, "POST", notionOAuthBase+"/token", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, ErrNotionExchange
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(clientID, clientSecret)

	resp, err := notionClient.Do(req)
	if err != nil {
		slog.Error("Notion code exchange request failed", "error", err)
		return nil, ErrNotionExchange
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("Notion code exchange rejected", "status", resp.StatusCode, "body", string(body))
		return nil, ErrNotionExchange
	}

	var token NotionToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		slog.Error("Notion code exchange returned malformed body", "error", err)
		return nil, ErrNotionExchange
	}
	if token.AccessToken == "" {
		return nil, ErrNotionExchange
	}

	return &token, nil
}

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

// graphAPIBase is a var so tests can point it at a local server
var graphAPIBase = "https://graph.facebook.com/v18.0"

var fbClient = &http.Client{Timeout: 10 * time.Second}

// ErrTokenExchange is the caller-facing token exchange failure. The
// upstream response is logged but never wrapped into this error, so it
// cannot leak through a handler.
var ErrTokenExchange = errors.New("token exchange failed")

// LongLivedToken is the result of exchanging a short-lived user token
type LongLivedToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ExchangeLongLivedToken trades a short-lived user access token for a
// long-lived one via the Graph OAuth endpoint.
func ExchangeLongLivedToken(ctx context.Context, shortToken, appID, appSecret string) (*LongLivedToken, error) {
	q := url.Values{}
	q.Set("grant_type", "fb_exchange_token")
	q.Set("client_id", appID)
	q.Set("client_secret", appSecret)
	q.Set("fb_exchange_token", shortToken)

	reqURL := fmt.Sprintf("%s/oauth/access_token?%s", graphAPIBase, q.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, ErrTokenExchange
	}

	resp, err := fbClient.Do(req)
	if err != nil {
		slog.Error("Token exchange request failed", "error", err)
		return nil, ErrTokenExchange
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("Token exchange rejected", "status", resp.StatusCode, "body", string(body))
		return nil, ErrTokenExchange
	}

	var token LongLivedToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		slog.Error("Token exchange returned malformed body", "error", err)
		return nil, ErrTokenExchange
	}
	if token.AccessToken == "" {
		return nil, ErrTokenExchange
	}

	return &token, nil
}

// BusinessAccount is one Facebook business the token can manage
type BusinessAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetBusinessAccounts lists the business accounts accessible to a token
func GetBusinessAccounts(ctx context.Context, accessToken string) ([]BusinessAccount, error) {
	reqURL := fmt.Sprintf("%s/me/businesses?access_token=%s", graphAPIBase, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := fbClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("Failed to list business accounts", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("failed to list business accounts: %s", resp.Status)
	}

	var result struct {
		Data []BusinessAccount `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result.Data, nil
}

// PostResponse is the platform-assigned id of a created post
type PostResponse struct {
	ID string `json:"id"`
}

// PostToPageFeed publishes a message to a page feed and returns the post
// id. Posting errors embed the platform body: they are operator-facing
// diagnostics, unlike token exchange failures.
func PostToPageFeed(ctx context.Context, pageID, message, pageAccessToken string) (*PostResponse, error) {
	reqURL := fmt.Sprintf("%s/%s/feed?access_token=%s", graphAPIBase, pageID, url.QueryEscape(pageAccessToken))

	payload := map[string]string{
		"message": message,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := fbClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		slog.Error("Failed to post to feed", "status", resp.StatusCode, "pageID", pageID)
		return nil, fmt.Errorf("failed to post to page feed: %s: %s", resp.Status, string(body))
	}

	var postResp PostResponse
	if err := json.Unmarshal(body, &postResp); err != nil {
		return nil, err
	}

	return &postResp, nil
}

// SendMessengerReply sends a reply message via Messenger
func SendMessengerReply(ctx context.Context, recipientID, message, pageAccessToken string) error {
	reqURL := fmt.Sprintf("%s/me/messages?access_token=%s", graphAPIBase, url.QueryEscape(pageAccessToken))

	payload := map[string]interface{}{
		"recipient": map[string]string{
			"id": recipientID,
		},
		"message": map[string]string{
			"text": message,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := fbClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("Failed to send messenger reply", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("failed to send message: %s", resp.Status)
	}

	return nil
}

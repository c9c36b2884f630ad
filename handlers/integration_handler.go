package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"chatsa-backend/config"
	"chatsa-backend/models"
	"chatsa-backend/services"
)

type FacebookTokenRequest struct {
	Token string `json:"token"`
}

// FacebookTokenExchange trades a short-lived token for a long-lived one.
// Exchange failures return a generic error: the upstream response never
// reaches the caller.
func FacebookTokenExchange(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req FacebookTokenRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		if req.Token == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing required field: token",
			})
		}

		token, err := services.ExchangeLongLivedToken(c.Context(), req.Token, cfg.FacebookAppID, cfg.FacebookAppSecret)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Token exchange failed",
			})
		}

		return c.JSON(fiber.Map{
			"accessToken": token.AccessToken,
			"expiresIn":   token.ExpiresIn,
		})
	}
}

// NotionAuthorize redirects the caller to the Notion OAuth consent page
func NotionAuthorize(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorizeURL := services.BuildNotionAuthorizeURL(cfg.NotionClientID, cfg.NotionRedirectURI)
		return c.Redirect(authorizeURL, fiber.StatusFound)
	}
}

// NotionCallback exchanges the authorization code for a workspace token
func NotionCallback(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing required field: code",
			})
		}

		token, err := services.ExchangeNotionCode(c.Context(), code, cfg.NotionClientID, cfg.NotionClientSecret, cfg.NotionRedirectURI)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Notion authorization failed",
			})
		}

		return c.JSON(fiber.Map{
			"workspace_id":   token.WorkspaceID,
			"workspace_name": token.WorkspaceName,
			"bot_id":         token.BotID,
		})
	}
}

// ListBusinessAccounts lists the Facebook businesses the token can manage
func ListBusinessAccounts(c *fiber.Ctx) error {
	accessToken := c.Query("accessToken")
	if accessToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: accessToken",
		})
	}

	accounts, err := services.GetBusinessAccounts(c.Context(), accessToken)
	if err != nil {
		slog.Error("Failed to list business accounts", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to list business accounts",
		})
	}

	return c.JSON(accounts)
}

type PostToFeedRequest struct {
	PageID  string `json:"page_id"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// PostToFeed publishes a message to a page feed. Posting errors are
// operator-facing, so the platform response is included.
func PostToFeed(c *fiber.Ctx) error {
	var req PostToFeedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.PageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: page_id",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: message",
		})
	}
	if req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: token",
		})
	}

	post, err := services.PostToPageFeed(c.Context(), req.PageID, req.Message, req.Token)
	if err != nil {
		slog.Error("Failed to post to feed", "error", err, "pageID", req.PageID)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"post_id": post.ID,
	})
}

type LinkPageRequest struct {
	PageID      string `json:"page_id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

// LinkFacebookPage links a Facebook page to the chatbot resolved by the
// ownership middleware
func LinkFacebookPage(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	var req LinkPageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.PageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: page_id",
		})
	}
	if req.AccessToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: access_token",
		})
	}

	page := &models.FacebookPage{
		ChatbotID:   chatbot.ChatbotID,
		PageID:      req.PageID,
		Name:        req.Name,
		AccessToken: req.AccessToken,
	}

	if err := services.LinkFacebookPage(c.Context(), page); err != nil {
		slog.Error("Failed to link page", "error", err, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to link page",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Page linked",
	})
}

// UnlinkFacebookPage removes a page link from a chatbot
func UnlinkFacebookPage(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	pageID := c.Params("pageID")
	if pageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Page ID is required",
		})
	}

	if err := services.UnlinkFacebookPage(c.Context(), chatbot.ChatbotID, pageID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Page link not found",
			})
		}
		slog.Error("Failed to unlink page", "error", err, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to unlink page",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Page unlinked",
	})
}

// ListLinkedPages returns the Facebook and Instagram pages linked to a chatbot
func ListLinkedPages(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	facebookPages, err := services.ListFacebookPages(c.Context(), chatbot.ChatbotID)
	if err != nil {
		slog.Error("Failed to list facebook pages", "error", err, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list pages",
		})
	}

	instagramPages, err := services.ListInstagramPages(c.Context(), chatbot.ChatbotID)
	if err != nil {
		slog.Error("Failed to list instagram pages", "error", err, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list pages",
		})
	}

	return c.JSON(fiber.Map{
		"facebook_pages":  facebookPages,
		"instagram_pages": instagramPages,
	})
}

// LinkInstagramPage links an Instagram business account to a chatbot
func LinkInstagramPage(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	var req LinkPageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.PageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: page_id",
		})
	}
	if req.AccessToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: access_token",
		})
	}

	page := &models.InstagramPage{
		ChatbotID:   chatbot.ChatbotID,
		PageID:      req.PageID,
		Name:        req.Name,
		AccessToken: req.AccessToken,
	}

	if err := services.LinkInstagramPage(c.Context(), page); err != nil {
		slog.Error("Failed to link instagram page", "error", err, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to link page",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Page linked",
	})
}

type ZapierSubscribeRequest struct {
	HookURL string `json:"hookUrl"`
	Event   string `json:"event"`
}

// ZapierSubscribe registers a Zapier hook URL for a chatbot
func ZapierSubscribe(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	var req ZapierSubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.HookURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: hookUrl",
		})
	}

	hook := &models.ZapierHook{
		HookURL:   req.HookURL,
		ChatbotID: chatbot.ChatbotID,
		Event:     req.Event,
	}

	if err := services.SubscribeZapierHook(c.Context(), hook); err != nil {
		slog.Error("Failed to subscribe hook", "error", err, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to subscribe hook",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(hook)
}

// ZapierUnsubscribe removes a Zapier hook by URL
func ZapierUnsubscribe(c *fiber.Ctx) error {
	var req ZapierSubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.HookURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: hookUrl",
		})
	}

	if err := services.UnsubscribeZapierHook(c.Context(), req.HookURL); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Hook not found",
			})
		}
		slog.Error("Failed to unsubscribe hook", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to unsubscribe hook",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Hook unsubscribed",
	})
}

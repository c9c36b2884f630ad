package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"chatsa-backend/config"
	"chatsa-backend/models"
	"chatsa-backend/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config) {
	webhook := app.Group("/api/webhook")

	// Webhook verification endpoint
	webhook.Get("/facebook", verifyWebhook(cfg))

	// Webhook event handler
	webhook.Post("/facebook", handleWebhookEvent(cfg))
}

// verifyWebhook handles the Facebook subscription handshake
func verifyWebhook(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mode := c.Query("hub.mode")
		token := c.Query("hub.verify_token")
		challenge := c.Query("hub.challenge")

		if mode == "subscribe" && token == cfg.VerifyToken {
			slog.Info("Webhook verified successfully")
			return c.SendString(challenge)
		}

		slog.Warn("Webhook verification failed", "mode", mode)
		return c.SendStatus(fiber.StatusForbidden)
	}
}

// handleWebhookEvent authenticates and acknowledges incoming events. The
// signature is checked before the payload is trusted; processing happens
// after the ack since the platform retries on slow or non-2xx responses.
func handleWebhookEvent(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawBody := c.Body()

		if !VerifySignature(rawBody, c.Get(signatureHeader), cfg.FacebookAppSecret) {
			slog.Warn("Webhook signature verification failed")
			return c.SendStatus(fiber.StatusForbidden)
		}

		var body WebhookEvent
		if err := json.Unmarshal(rawBody, &body); err != nil {
			slog.Error("Failed to parse webhook body", "error", err)
			return c.SendStatus(fiber.StatusBadRequest)
		}

		// Only process page events
		if body.Object != "page" {
			return c.SendStatus(fiber.StatusNotFound)
		}

		// Process webhook asynchronously
		go processWebhookEvent(body)

		// Return immediately to Facebook
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	}
}

// processWebhookEvent routes each messaging event to the chatbot linked to
// the receiving page and appends it to the conversation transcript
func processWebhookEvent(body WebhookEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, entry := range body.Entry {
		pageID := entry.ID

		page, err := services.GetFacebookPageByPageID(ctx, pageID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				slog.Warn("Webhook event for unlinked page", "pageID", pageID)
			} else {
				slog.Error("Failed to resolve page link", "error", err, "pageID", pageID)
			}
			continue
		}

		for _, messaging := range entry.Messaging {
			if messaging.Message == nil || messaging.Message.Text == "" {
				continue
			}

			// The page replying to itself is not a user message
			if messaging.Sender.ID == pageID {
				continue
			}

			msg := models.ConversationMessage{
				Role:      models.RoleUser,
				Content:   messaging.Message.Text,
				Timestamp: time.UnixMilli(messaging.Timestamp),
			}

			if err := services.AppendConversationMessage(ctx, page.ChatbotID, messaging.Sender.ID, "facebook", msg); err != nil {
				slog.Error("Failed to append webhook message",
					"error", err,
					"chatbotID", page.ChatbotID,
					"senderID", messaging.Sender.ID)
				continue
			}

			slog.Info("Webhook message recorded",
				"chatbotID", page.ChatbotID,
				"pageID", pageID,
				"senderID", messaging.Sender.ID)

			broadcastAndRelay(ctx, page.ChatbotID, messaging.Sender.ID, messaging.Message.Text)
		}
	}
}

// broadcastAndRelay fans the new message out to the owning team's
// dashboard feed and the chatbot's Zapier hooks
func broadcastAndRelay(ctx context.Context, chatbotID, senderID, text string) {
	event := map[string]interface{}{
		"external_user_id": senderID,
		"role":             models.RoleUser,
		"content":          text,
		"timestamp":        time.Now().Unix(),
	}

	chatbot, err := services.GetChatbotByID(ctx, chatbotID)
	if err == nil {
		services.GetWebSocketManager().BroadcastToTeam(services.BroadcastMessage{
			TeamID:    chatbot.TeamID,
			ChatbotID: chatbotID,
			Type:      "new_message",
			Data:      event,
		})
	}

	services.RelayToZapierHooks(ctx, chatbotID, event)
}

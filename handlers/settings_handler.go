package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"chatsa-backend/models"
	"chatsa-backend/services"
)

// Settings handlers. Each kind gets its own typed request/response; the
// record is created lazily with defaults on first read.

func GetSettings(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	kind := c.Params("kind")
	if !models.IsValidSettingsKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid settings kind",
			"valid_kinds": []string{
				string(models.SettingsLeads),
				string(models.SettingsNotifications),
				string(models.SettingsVisibility),
				string(models.SettingsWebhooks),
			},
		})
	}

	var (
		settings interface{}
		err      error
	)
	switch models.SettingsKind(kind) {
	case models.SettingsLeads:
		settings, err = services.GetLeadsSettings(c.Context(), chatbot.ChatbotID)
	case models.SettingsNotifications:
		settings, err = services.GetNotificationSettings(c.Context(), chatbot.ChatbotID)
	case models.SettingsVisibility:
		settings, err = services.GetVisibilitySettings(c.Context(), chatbot.ChatbotID)
	case models.SettingsWebhooks:
		settings, err = services.GetWebhookSettings(c.Context(), chatbot.ChatbotID)
	}
	if err != nil {
		slog.Error("Failed to get settings", "error", err, "kind", kind, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get settings",
		})
	}

	return c.JSON(settings)
}

func UpdateSettings(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	kind := c.Params("kind")
	if !models.IsValidSettingsKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid settings kind",
		})
	}

	var (
		settings interface{}
		err      error
	)
	switch models.SettingsKind(kind) {
	case models.SettingsLeads:
		var req models.LeadsSettings
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		settings, err = services.UpdateLeadsSettings(c.Context(), chatbot.ChatbotID, &req)
	case models.SettingsNotifications:
		var req models.NotificationSettings
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		settings, err = services.UpdateNotificationSettings(c.Context(), chatbot.ChatbotID, &req)
	case models.SettingsVisibility:
		var req models.VisibilitySettings
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		settings, err = services.UpdateVisibilitySettings(c.Context(), chatbot.ChatbotID, &req)
	case models.SettingsWebhooks:
		var req models.WebhookSettings
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		settings, err = services.UpdateWebhookSettings(c.Context(), chatbot.ChatbotID, &req)
	}
	if err != nil {
		slog.Error("Failed to update settings", "error", err, "kind", kind, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update settings",
		})
	}

	return c.JSON(settings)
}

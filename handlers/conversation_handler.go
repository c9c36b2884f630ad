package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"chatsa-backend/models"
	"chatsa-backend/services"
)

// ListConversations returns a chatbot's conversations, most recently
// active first
func ListConversations(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	conversations, err := services.ListConversations(c.Context(), chatbot.ChatbotID, limit)
	if err != nil {
		slog.Error("Failed to list conversations", "error", err, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list conversations",
		})
	}

	return c.JSON(fiber.Map{
		"conversations": conversations,
	})
}

// GetConversation returns one transcript by external user id
func GetConversation(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	externalUserID := c.Params("externalUserID")
	if externalUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "External user ID is required",
		})
	}

	conversation, err := services.GetConversation(c.Context(), chatbot.ChatbotID, externalUserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		slog.Error("Failed to get conversation", "error", err, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get conversation",
		})
	}

	return c.JSON(conversation)
}

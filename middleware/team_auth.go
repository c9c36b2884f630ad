package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"chatsa-backend/services"
)

// RequireTeamOwner verifies that the team named by the :teamID route param
// was created by the session user. 404 when the team does not exist, 403
// when it belongs to someone else.
func RequireTeamOwner(c *fiber.Ctx) error {
	teamID := c.Params("teamID")
	if teamID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Team ID is required",
		})
	}

	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	team, err := services.GetTeamByID(c.Context(), teamID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Team not found",
			})
		}
		slog.Error("Failed to resolve team for ownership check", "error", err, "teamID", teamID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve team",
		})
	}

	if team.CreatedBy != userID {
		slog.Info("Team access denied", "teamID", teamID, "userID", userID)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied to this team",
		})
	}

	c.Locals("team", team)

	return c.Next()
}

// RequireChatbotOwner verifies that the chatbot named by the :chatbotID
// route param belongs to a team the session user created.
func RequireChatbotOwner(c *fiber.Ctx) error {
	chatbotID := c.Params("chatbotID")
	if chatbotID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Chatbot ID is required",
		})
	}

	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	chatbot, err := services.GetChatbotByID(c.Context(), chatbotID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Chatbot not found",
			})
		}
		slog.Error("Failed to resolve chatbot for ownership check", "error", err, "chatbotID", chatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve chatbot",
		})
	}

	team, err := services.GetTeamByID(c.Context(), chatbot.TeamID)
	if err != nil || team.CreatedBy != userID {
		slog.Info("Chatbot access denied", "chatbotID", chatbotID, "userID", userID)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied to this chatbot",
		})
	}

	c.Locals("chatbot", chatbot)

	return c.Next()
}

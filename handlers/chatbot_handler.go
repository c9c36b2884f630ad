package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"chatsa-backend/models"
	"chatsa-backend/services"
)

type CreateChatbotRequest struct {
	TeamID  string          `json:"team_id"`
	Name    string          `json:"name"`
	Sources []models.Source `json:"sources"`
}

// CreateChatbot creates a chatbot under a team the caller owns
func CreateChatbot(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req CreateChatbotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.TeamID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: team_id",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: name",
		})
	}

	team, err := services.GetTeamByID(c.Context(), req.TeamID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Team not found",
			})
		}
		slog.Error("Failed to get team", "error", err, "teamID", req.TeamID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create chatbot",
		})
	}
	if team.CreatedBy != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied to this team",
		})
	}

	chatbot := &models.Chatbot{
		TeamID:    req.TeamID,
		Name:      req.Name,
		Sources:   req.Sources,
		CreatedBy: userID,
	}

	if err := services.CreateChatbot(c.Context(), chatbot); err != nil {
		slog.Error("Failed to create chatbot", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create chatbot",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(chatbot)
}

// ListChatbots returns the chatbots of a team the caller owns
func ListChatbots(c *fiber.Ctx) error {
	team, ok := c.Locals("team").(*models.Team)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	chatbots, err := services.ListChatbotsByTeam(c.Context(), team.TeamID)
	if err != nil {
		slog.Error("Failed to list chatbots", "error", err, "teamID", team.TeamID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list chatbots",
		})
	}

	return c.JSON(fiber.Map{
		"chatbots": chatbots,
	})
}

// GetChatbot returns one chatbot resolved by the ownership middleware
func GetChatbot(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	return c.JSON(chatbot)
}

type ChatbotNamesRequest struct {
	ChatbotIDs []string `json:"chatbotIds"`
}

// GetChatbotNames is the batch id→name lookup. Unknown ids are omitted
// from the result; an empty input returns an empty mapping.
func GetChatbotNames(c *fiber.Ctx) error {
	var req ChatbotNamesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	names, err := services.GetChatbotNames(c.Context(), req.ChatbotIDs)
	if err != nil {
		slog.Error("Failed to get chatbot names", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to look up chatbot names",
		})
	}

	return c.JSON(fiber.Map{
		"names": names,
	})
}

type AddSourceRequest struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// AddChatbotSource appends a knowledge source to a chatbot
func AddChatbotSource(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	var req AddSourceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: type",
		})
	}

	source := models.Source{
		Type:    req.Type,
		Title:   req.Title,
		Content: req.Content,
		URL:     req.URL,
	}

	if err := services.AddChatbotSource(c.Context(), chatbot.ChatbotID, source); err != nil {
		slog.Error("Failed to add source", "error", err, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add source",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Source added",
	})
}

// DeleteChatbot removes a chatbot the caller owns, with its settings and
// channel links
func DeleteChatbot(c *fiber.Ctx) error {
	chatbot, ok := c.Locals("chatbot").(*models.Chatbot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chatbot not found",
		})
	}

	if err := services.DeleteChatbot(c.Context(), chatbot.ChatbotID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Chatbot not found",
			})
		}
		slog.Error("Failed to delete chatbot", "error", err, "chatbotID", chatbot.ChatbotID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete chatbot",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Chatbot deleted",
	})
}

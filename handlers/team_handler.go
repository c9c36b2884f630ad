package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"chatsa-backend/models"
	"chatsa-backend/services"
)

type CreateTeamRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	BillingInfo *models.BillingInfo `json:"billing_info"`
}

// CreateTeam creates a team owned by the session user
func CreateTeam(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	team := &models.Team{
		Name:        req.Name,
		Description: req.Description,
		BillingInfo: req.BillingInfo,
		CreatedBy:   userID,
	}

	if err := services.CreateTeam(c.Context(), team); err != nil {
		slog.Error("Failed to create team", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create team",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(team)
}

// ListTeams returns the session user's teams, newest first, with real
// chatbot counts
func ListTeams(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	teams, err := services.ListTeamsForUser(c.Context(), userID)
	if err != nil {
		slog.Error("Failed to list teams", "error", err, "userID", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list teams",
		})
	}

	return c.JSON(fiber.Map{
		"teams": teams,
	})
}

// GetTeam returns one team. Ownership was checked by the middleware, which
// stashed the resolved document.
func GetTeam(c *fiber.Ctx) error {
	team, ok := c.Locals("team").(*models.Team)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	return c.JSON(team)
}

type UpdateTeamRequest struct {
	TeamID      string              `json:"teamId"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	BillingInfo *models.BillingInfo `json:"billingInfo"`
}

// UpdateTeam replaces the mutable fields of a team the caller owns.
// A missing team is a 404, not a generic server error.
func UpdateTeam(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.TeamID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: teamId",
		})
	}

	// Ownership check: the team id comes from the body, so it must be
	// verified against the session user before any write.
	team, err := services.GetTeamByID(c.Context(), req.TeamID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Team not found",
			})
		}
		slog.Error("Failed to get team", "error", err, "teamID", req.TeamID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update team",
		})
	}

	if team.CreatedBy != userID {
		slog.Info("Team update denied", "teamID", req.TeamID, "userID", userID)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied to this team",
		})
	}

	updated, err := services.UpdateTeam(c.Context(), req.TeamID, services.TeamUpdate{
		Name:        req.Name,
		Description: req.Description,
		BillingInfo: req.BillingInfo,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Team not found",
			})
		}
		slog.Error("Failed to update team", "error", err, "teamID", req.TeamID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update team",
		})
	}

	return c.JSON(updated)
}

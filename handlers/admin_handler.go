package handlers

import (
	"github.com/gofiber/fiber/v2"

	"chatsa-backend/services"
)

// AdminAuth reports admin status for the caller. Requests reach this
// handler only after the allow-list gate, so the answer is always true;
// non-admins receive the gate's 403 with is_admin:false.
func AdminAuth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"is_admin": true,
	})
}

// DebugSession dumps the resolved session. Mounted only when DEBUG=true;
// never part of the production surface.
func DebugSession(c *fiber.Ctx) error {
	sessionID := c.Cookies(services.SessionCookieName)
	if sessionID == "" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"session":          nil,
			"user_email":       "",
			"is_authenticated": false,
		})
	}

	session, err := services.GetSessionByID(c.Context(), sessionID)
	if err != nil || session == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"session":          nil,
			"user_email":       "",
			"is_authenticated": false,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"session":          session,
		"user_email":       session.Email,
		"is_authenticated": true,
	})
}

package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"chatsa-backend/config"
	"chatsa-backend/services"
)

// RequireAuth resolves the caller's identity from the session cookie and
// stores it in locals. Any failure, including internal errors during
// session resolution, produces the same generic 401.
func RequireAuth(c *fiber.Ctx) error {
	// Get session ID from cookie
	sessionID := c.Cookies(services.SessionCookieName)
	if sessionID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	// Get session from database
	session, err := services.GetSessionByID(c.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to get session", "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	if session == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired session",
		})
	}

	// Set user information in locals for downstream handlers
	c.Locals("user_id", session.UserID)
	c.Locals("email", session.Email)

	// Extend session expiration on activity
	services.ExtendSession(c.Context(), sessionID)

	return c.Next()
}

// OptionalAuth resolves the session identity when a cookie is present but
// never rejects the request. Gates that produce their own denial shape,
// like the admin allow-list, mount this instead of RequireAuth.
func OptionalAuth(c *fiber.Ctx) error {
	sessionID := c.Cookies(services.SessionCookieName)
	if sessionID == "" {
		return c.Next()
	}

	session, err := services.GetSessionByID(c.Context(), sessionID)
	if err != nil || session == nil {
		return c.Next()
	}

	c.Locals("user_id", session.UserID)
	c.Locals("email", session.Email)

	services.ExtendSession(c.Context(), sessionID)

	return c.Next()
}

// RequireAdmin checks the authenticated email against the configured
// allow-list. The list is injected through the config, not read from a
// global at check time.
func RequireAdmin(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, ok := c.Locals("email").(string)
		if !ok || email == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"is_admin": false,
				"error":    "Access denied",
			})
		}

		if !cfg.IsAdminEmail(email) {
			slog.Info("Admin access denied", "email", email)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"is_admin": false,
				"error":    "Access denied",
			})
		}

		return c.Next()
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"chatsa-backend/config"
	"chatsa-backend/handlers"
	"chatsa-backend/middleware"
	"chatsa-backend/services"
	"chatsa-backend/webhooks"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Initialize structured logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := services.InitMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer db.Disconnect(ctx)

	// Initialize services
	services.InitServices(db, cfg.DatabaseName)

	// Periodic removal of long-expired sessions
	go services.StartSessionCleanup(context.Background())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("Request error", "error", err, "status", code)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	// Register webhook routes (signature-authenticated, no session)
	webhooks.RegisterRoutes(app, cfg)

	auth := app.Group("/auth")
	auth.Post("/signup", handlers.Signup)
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", handlers.Logout)
	auth.Get("/me", handlers.GetCurrentUser)

	api := app.Group("/api")

	// Admin gate (allow-list). OptionalAuth so a missing session still
	// reaches the gate and gets its 403 with is_admin:false.
	api.Get("/admin/auth", middleware.OptionalAuth, middleware.RequireAdmin(cfg), handlers.AdminAuth)

	// Diagnostic endpoint, never mounted in production
	if cfg.Debug {
		api.Get("/debug/session", handlers.DebugSession)
	}

	// Team directory
	api.Post("/team", middleware.RequireAuth, handlers.CreateTeam)
	api.Get("/teams", middleware.RequireAuth, handlers.ListTeams)
	api.Get("/team/:teamID", middleware.RequireAuth, middleware.RequireTeamOwner, handlers.GetTeam)
	api.Put("/team/update", middleware.RequireAuth, handlers.UpdateTeam)

	// Chatbots
	api.Post("/chatbot", middleware.RequireAuth, handlers.CreateChatbot)
	api.Get("/team/:teamID/chatbots", middleware.RequireAuth, middleware.RequireTeamOwner, handlers.ListChatbots)
	api.Post("/chatbot/names", middleware.RequireAuth, handlers.GetChatbotNames)
	api.Get("/chatbot/:chatbotID", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.GetChatbot)
	api.Post("/chatbot/:chatbotID/sources", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.AddChatbotSource)
	api.Delete("/chatbot/:chatbotID", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.DeleteChatbot)

	// Per-kind settings, created lazily on first read
	api.Get("/chatbot/:chatbotID/settings/:kind", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.GetSettings)
	api.Put("/chatbot/:chatbotID/settings/:kind", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.UpdateSettings)

	// Conversations
	api.Get("/chatbot/:chatbotID/conversations", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.ListConversations)
	api.Get("/chatbot/:chatbotID/conversations/:externalUserID", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.GetConversation)

	// Channel integrations
	api.Post("/auth/facebook", middleware.RequireAuth, handlers.FacebookTokenExchange(cfg))
	api.Get("/auth/notion", handlers.NotionAuthorize(cfg))
	api.Get("/auth/notion/callback", handlers.NotionCallback(cfg))
	api.Get("/business", middleware.RequireAuth, handlers.ListBusinessAccounts)
	api.Post("/facebook/post", middleware.RequireAuth, handlers.PostToFeed)

	api.Post("/chatbot/:chatbotID/pages/facebook", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.LinkFacebookPage)
	api.Post("/chatbot/:chatbotID/pages/instagram", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.LinkInstagramPage)
	api.Get("/chatbot/:chatbotID/pages", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.ListLinkedPages)
	api.Delete("/chatbot/:chatbotID/pages/facebook/:pageID", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.UnlinkFacebookPage)

	api.Post("/chatbot/:chatbotID/zapier/subscribe", middleware.RequireAuth, middleware.RequireChatbotOwner, handlers.ZapierSubscribe)
	api.Post("/zapier/unsubscribe", middleware.RequireAuth, handlers.ZapierUnsubscribe)

	// Live conversation feed (requires team ownership)
	api.Get("/team/:teamID/ws",
		middleware.RequireAuth,
		middleware.RequireTeamOwner,
		func(c *fiber.Ctx) error {
			// Params are not visible after the upgrade, stash the team id
			c.Locals("feed_team_id", c.Params("teamID"))
			return c.Next()
		},
		handlers.WebSocketUpgrade,
		websocket.New(handlers.HandleWebSocket))

	// Widget embed bootstrap
	app.Get("/embed.min.js", handlers.EmbedScript(cfg))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "chatsa-backend",
		})
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("Server starting", "port", port)
	if err := app.Listen(":" + port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"chatsa-backend/models"
	"chatsa-backend/services"
)

// WebSocketMessage represents an incoming WebSocket message
type WebSocketMessage struct {
	Type           string `json:"type"`
	ChatbotID      string `json:"chatbot_id,omitempty"`
	ExternalUserID string `json:"external_user_id,omitempty"`
	Message        string `json:"message,omitempty"`
}

// WebSocketUpgrade upgrades HTTP connection to WebSocket
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket serves the dashboard conversation feed for one team
func HandleWebSocket(c *websocket.Conn) {
	// Team ID comes from the route; ownership was checked by middleware
	teamID, ok := c.Locals("feed_team_id").(string)
	if !ok || teamID == "" {
		slog.Error("WebSocket connection without team ID")
		c.Close()
		return
	}

	userID, _ := c.Locals("user_id").(string)
	email, _ := c.Locals("email").(string)

	conn := &services.WebSocketConnection{
		Conn:   c,
		TeamID: teamID,
		UserID: userID,
		Email:  email,
		Send:   make(chan []byte, 256),
	}

	wsManager := services.GetWebSocketManager()
	wsManager.RegisterConnection(conn)
	defer wsManager.UnregisterConnection(teamID, userID)

	slog.Info("WebSocket connection established",
		"teamID", teamID,
		"userID", userID)

	// Send initial connection success message
	welcomeMsg := map[string]interface{}{
		"type":    "connected",
		"message": "WebSocket connection established",
		"team_id": teamID,
	}
	if welcomeData, err := json.Marshal(welcomeMsg); err == nil {
		c.WriteMessage(websocket.TextMessage, welcomeData)
	}

	go handleWebSocketSend(conn)

	handleWebSocketReceive(conn)
}

// handleWebSocketSend pumps outbound messages and keepalive pings
func handleWebSocketSend(conn *services.WebSocketConnection) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Error("Failed to write WebSocket message", "error", err)
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleWebSocketReceive handles inbound dashboard messages
func handleWebSocketReceive(conn *services.WebSocketConnection) {
	defer func() {
		conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "error", err)
			}
			break
		}

		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg WebSocketMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			slog.Error("Failed to parse WebSocket message", "error", err)
			continue
		}

		switch msg.Type {
		case "ping":
			pongMsg := map[string]string{"type": "pong"}
			if pongData, err := json.Marshal(pongMsg); err == nil {
				conn.Send <- pongData
			}

		case "send_message":
			// Human reply from the dashboard into a conversation
			handleDashboardMessage(conn, msg)

		default:
			slog.Warn("Unknown WebSocket message type",
				"type", msg.Type,
				"teamID", conn.TeamID)
		}
	}
}

// handleDashboardMessage relays a human reply to the external user and
// appends it to the transcript
func handleDashboardMessage(conn *services.WebSocketConnection, msg WebSocketMessage) {
	if msg.ChatbotID == "" || msg.ExternalUserID == "" || msg.Message == "" {
		sendWebSocketError(conn, "Missing required fields: chatbot_id, external_user_id, and message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chatbot, err := services.GetChatbotByID(ctx, msg.ChatbotID)
	if err != nil || chatbot.TeamID != conn.TeamID {
		sendWebSocketError(conn, "Chatbot not found")
		return
	}

	// Deliver over Messenger when the chatbot has a linked page
	pages, err := services.ListFacebookPages(ctx, chatbot.ChatbotID)
	if err == nil && len(pages) > 0 {
		if err := services.SendMessengerReply(ctx, msg.ExternalUserID, msg.Message, pages[0].AccessToken); err != nil {
			slog.Error("Failed to send message to external user", "error", err)
			sendWebSocketError(conn, "Failed to deliver message")
			return
		}
	}

	reply := models.ConversationMessage{
		Role:      models.RoleAssistant,
		Content:   msg.Message,
		Timestamp: time.Now(),
	}
	if err := services.AppendConversationMessage(ctx, chatbot.ChatbotID, msg.ExternalUserID, "facebook", reply); err != nil {
		slog.Error("Failed to save dashboard message", "error", err)
	}

	wsManager := services.GetWebSocketManager()
	wsManager.BroadcastToTeam(services.BroadcastMessage{
		TeamID:    conn.TeamID,
		ChatbotID: chatbot.ChatbotID,
		Type:      "new_message",
		Data: map[string]interface{}{
			"external_user_id": msg.ExternalUserID,
			"role":             models.RoleAssistant,
			"content":          msg.Message,
			"timestamp":        time.Now().Unix(),
		},
	})
}

// sendWebSocketError sends an error message to the WebSocket client
func sendWebSocketError(conn *services.WebSocketConnection, errorMessage string) {
	errorMsg := map[string]string{
		"type":  "error",
		"error": errorMessage,
	}
	if errorData, err := json.Marshal(errorMsg); err == nil {
		conn.Send <- errorData
	}
}

package services

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// WebSocketManager manages dashboard WebSocket connections, keyed by team
type WebSocketManager struct {
	// Map of team ID to map of user ID to connection
	connections map[string]map[string]*WebSocketConnection
	mu          sync.RWMutex
	broadcast   chan BroadcastMessage
}

// WebSocketConnection represents a single WebSocket connection
type WebSocketConnection struct {
	Conn   *websocket.Conn
	TeamID string
	UserID string
	Email  string
	Send   chan []byte
}

// BroadcastMessage represents a message to broadcast to a team
type BroadcastMessage struct {
	TeamID    string
	ChatbotID string
	Type      string
	Data      interface{}
}

// MessagePayload is the wire format of dashboard feed messages
type MessagePayload struct {
	Type      string      `json:"type"`
	ChatbotID string      `json:"chatbot_id,omitempty"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

var wsManager *WebSocketManager
var once sync.Once

// GetWebSocketManager returns the singleton WebSocket manager
func GetWebSocketManager() *WebSocketManager {
	once.Do(func() {
		wsManager = &WebSocketManager{
			connections: make(map[string]map[string]*WebSocketConnection),
			broadcast:   make(chan BroadcastMessage, 100),
		}
		go wsManager.handleBroadcast()
	})
	return wsManager
}

// RegisterConnection registers a new WebSocket connection
func (m *WebSocketManager) RegisterConnection(conn *WebSocketConnection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connections[conn.TeamID] == nil {
		m.connections[conn.TeamID] = make(map[string]*WebSocketConnection)
	}

	m.connections[conn.TeamID][conn.UserID] = conn

	slog.Info("WebSocket connection registered",
		"teamID", conn.TeamID,
		"userID", conn.UserID,
		"totalConnections", len(m.connections[conn.TeamID]))
}

// UnregisterConnection removes a WebSocket connection
func (m *WebSocketManager) UnregisterConnection(teamID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if teamConns, exists := m.connections[teamID]; exists {
		if conn, exists := teamConns[userID]; exists {
			close(conn.Send)
			delete(teamConns, userID)

			slog.Info("WebSocket connection unregistered",
				"teamID", teamID,
				"userID", userID,
				"remainingConnections", len(teamConns))

			// Clean up empty team map
			if len(teamConns) == 0 {
				delete(m.connections, teamID)
			}
		}
	}
}

// BroadcastToTeam queues a message for every connection of a team
func (m *WebSocketManager) BroadcastToTeam(message BroadcastMessage) {
	m.broadcast <- message
}

// handleBroadcast processes broadcast messages
func (m *WebSocketManager) handleBroadcast() {
	for message := range m.broadcast {
		m.mu.RLock()
		teamConns, exists := m.connections[message.TeamID]
		m.mu.RUnlock()

		if !exists {
			continue
		}

		payload := MessagePayload{
			Type:      message.Type,
			ChatbotID: message.ChatbotID,
			Data:      message.Data,
			Timestamp: time.Now().Unix(),
		}

		jsonData, err := json.Marshal(payload)
		if err != nil {
			slog.Error("Failed to marshal WebSocket message", "error", err)
			continue
		}

		m.mu.RLock()
		for _, conn := range teamConns {
			select {
			case conn.Send <- jsonData:
				// Message sent successfully
			default:
				// Connection buffer full, skip
				slog.Warn("WebSocket connection buffer full",
					"teamID", message.TeamID,
					"userID", conn.UserID)
			}
		}
		m.mu.RUnlock()
	}
}

// GetConnectionCount returns the number of active connections for a team
func (m *WebSocketManager) GetConnectionCount(teamID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if teamConns, exists := m.connections[teamID]; exists {
		return len(teamConns)
	}
	return 0
}

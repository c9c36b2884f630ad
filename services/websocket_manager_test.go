package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketManagerRegistry(t *testing.T) {
	m := GetWebSocketManager()

	conn := &WebSocketConnection{
		TeamID: "team-reg",
		UserID: "u1",
		Send:   make(chan []byte, 4),
	}

	m.RegisterConnection(conn)
	assert.Equal(t, 1, m.GetConnectionCount("team-reg"))

	m.UnregisterConnection("team-reg", "u1")
	assert.Equal(t, 0, m.GetConnectionCount("team-reg"))

	// Unregistering twice is a no-op
	m.UnregisterConnection("team-reg", "u1")
	assert.Equal(t, 0, m.GetConnectionCount("team-reg"))
}

func TestBroadcastToTeamDeliversToRegisteredConnections(t *testing.T) {
	m := GetWebSocketManager()

	conn := &WebSocketConnection{
		TeamID: "team-bc",
		UserID: "u1",
		Send:   make(chan []byte, 4),
	}
	m.RegisterConnection(conn)
	defer m.UnregisterConnection("team-bc", "u1")

	m.BroadcastToTeam(BroadcastMessage{
		TeamID:    "team-bc",
		ChatbotID: "bot-1",
		Type:      "new_message",
		Data:      map[string]interface{}{"content": "hi"},
	})

	select {
	case raw := <-conn.Send:
		var payload MessagePayload
		require.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "new_message", payload.Type)
		assert.Equal(t, "bot-1", payload.ChatbotID)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageRole constrains who authored a conversation message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// IsValidMessageRole checks if a role is one of the allowed values
func IsValidMessageRole(role string) bool {
	return MessageRole(role) == RoleUser || MessageRole(role) == RoleAssistant
}

// Conversation is a transcript between one external user and a chatbot.
// Messages are append-only.
type Conversation struct {
	ID             primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	ChatbotID      string                `bson:"chatbot_id" json:"chatbot_id"`
	ExternalUserID string                `bson:"external_user_id" json:"external_user_id"`
	Channel        string                `bson:"channel,omitempty" json:"channel,omitempty"` // "widget", "facebook", "instagram", "whatsapp"
	Messages       []ConversationMessage `bson:"messages" json:"messages"`
	CreatedAt      time.Time             `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time             `bson:"updated_at" json:"updated_at"`
}

// ConversationMessage is a single utterance in a transcript
type ConversationMessage struct {
	Role      MessageRole `bson:"role" json:"role"`
	Content   string      `bson:"content" json:"content"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chatbot represents a configured assistant instance owned by a team
type Chatbot struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatbotID string             `bson:"chatbot_id" json:"chatbot_id"`
	TeamID    string             `bson:"team_id" json:"team_id"`
	Name      string             `bson:"name" json:"name"`
	Sources   []Source           `bson:"sources,omitempty" json:"sources,omitempty"`
	CreatedBy string             `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Source is one knowledge source attached to a chatbot. Order matters:
// sources are stored and returned in the order they were added.
type Source struct {
	Type    string `bson:"type" json:"type"` // "text", "file", "url", "qa"
	Title   string `bson:"title,omitempty" json:"title,omitempty"`
	Content string `bson:"content,omitempty" json:"content,omitempty"`
	URL     string `bson:"url,omitempty" json:"url,omitempty"`
}

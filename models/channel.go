package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FacebookPage links a chatbot to a Facebook page it answers for
type FacebookPage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatbotID   string             `bson:"chatbot_id" json:"chatbot_id"`
	PageID      string             `bson:"page_id" json:"page_id"`
	Name        string             `bson:"name" json:"name"`
	AccessToken string             `bson:"access_token" json:"-"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// InstagramPage links a chatbot to an Instagram business account
type InstagramPage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatbotID   string             `bson:"chatbot_id" json:"chatbot_id"`
	PageID      string             `bson:"page_id" json:"page_id"`
	Name        string             `bson:"name" json:"name"`
	AccessToken string             `bson:"access_token" json:"-"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// ZapierHook is a subscription URL Zapier registered for a chatbot.
// hook_url is globally unique.
type ZapierHook struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HookURL   string             `bson:"hook_url" json:"hook_url"`
	ChatbotID string             `bson:"chatbot_id" json:"chatbot_id"`
	Event     string             `bson:"event,omitempty" json:"event,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

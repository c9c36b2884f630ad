package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings records are 1:1 side documents per chatbot, one collection per
// kind. Each is created lazily with defaults the first time it is read.

// LeadsSettings configures the lead-capture form shown in the widget
type LeadsSettings struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatbotID    string             `bson:"chatbot_id" json:"chatbot_id"`
	Enabled      bool               `bson:"enabled" json:"enabled"`
	Title        string             `bson:"title,omitempty" json:"title,omitempty"`
	CollectName  bool               `bson:"collect_name" json:"collect_name"`
	CollectEmail bool               `bson:"collect_email" json:"collect_email"`
	CollectPhone bool               `bson:"collect_phone" json:"collect_phone"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// NotificationSettings configures email notifications for a chatbot
type NotificationSettings struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatbotID        string             `bson:"chatbot_id" json:"chatbot_id"`
	DailyLeadsEmail  bool               `bson:"daily_leads_email" json:"daily_leads_email"`
	DailyConvosEmail bool               `bson:"daily_convos_email" json:"daily_convos_email"`
	Recipients       []string           `bson:"recipients,omitempty" json:"recipients,omitempty"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// VisibilitySettings controls where a chatbot may be embedded
type VisibilitySettings struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatbotID      string             `bson:"chatbot_id" json:"chatbot_id"`
	Public         bool               `bson:"public" json:"public"`
	AllowedDomains []string           `bson:"allowed_domains,omitempty" json:"allowed_domains,omitempty"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// WebhookSettings configures outbound event webhooks for a chatbot
type WebhookSettings struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatbotID   string             `bson:"chatbot_id" json:"chatbot_id"`
	Enabled     bool               `bson:"enabled" json:"enabled"`
	EndpointURL string             `bson:"endpoint_url,omitempty" json:"endpoint_url,omitempty"`
	SigningKey  string             `bson:"signing_key,omitempty" json:"-"`
	LeadEvents  bool               `bson:"lead_events" json:"lead_events"`
	ConvoEvents bool               `bson:"convo_events" json:"convo_events"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// SettingsKind names one settings collection
type SettingsKind string

const (
	SettingsLeads         SettingsKind = "leads"
	SettingsNotifications SettingsKind = "notifications"
	SettingsVisibility    SettingsKind = "visibility"
	SettingsWebhooks      SettingsKind = "webhooks"
)

// IsValidSettingsKind checks if a kind names a known settings collection
func IsValidSettingsKind(kind string) bool {
	switch SettingsKind(kind) {
	case SettingsLeads, SettingsNotifications, SettingsVisibility, SettingsWebhooks:
		return true
	}
	return false
}

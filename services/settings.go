package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatsa-backend/models"
)

// Settings records are created lazily: the first read upserts a document
// with defaults, so there is always at most one record per chatbot per kind.

func settingsCollection(kind models.SettingsKind) string {
	switch kind {
	case models.SettingsLeads:
		return "leads_settings"
	case models.SettingsNotifications:
		return "notification_settings"
	case models.SettingsVisibility:
		return "visibility_settings"
	case models.SettingsWebhooks:
		return "webhook_settings"
	}
	return ""
}

// getOrCreateSettings performs the lazy upsert shared by all kinds. The
// defaults document is only applied on insert.
func getOrCreateSettings(ctx context.Context, kind models.SettingsKind, chatbotID string, defaults bson.M, out interface{}) error {
	collection := database.Collection(settingsCollection(kind))

	defaults["chatbot_id"] = chatbotID
	defaults["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := collection.FindOneAndUpdate(ctx,
		bson.M{"chatbot_id": chatbotID},
		bson.M{"$setOnInsert": defaults},
		opts,
	).Decode(out)
	if err != nil {
		return fmt.Errorf("failed to get %s settings: %w", kind, err)
	}

	return nil
}

// replaceSettings writes the full mutable document for a kind
func replaceSettings(ctx context.Context, kind models.SettingsKind, chatbotID string, set bson.M, out interface{}) error {
	collection := database.Collection(settingsCollection(kind))

	set["chatbot_id"] = chatbotID
	set["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := collection.FindOneAndUpdate(ctx,
		bson.M{"chatbot_id": chatbotID},
		bson.M{"$set": set},
		opts,
	).Decode(out)
	if err != nil {
		return fmt.Errorf("failed to update %s settings: %w", kind, err)
	}

	return nil
}

// GetLeadsSettings returns the leads settings for a chatbot, creating the
// record with defaults on first access
func GetLeadsSettings(ctx context.Context, chatbotID string) (*models.LeadsSettings, error) {
	var settings models.LeadsSettings
	defaults := bson.M{
		"enabled":       false,
		"title":         "Let us know how to contact you",
		"collect_name":  true,
		"collect_email": true,
		"collect_phone": false,
	}
	if err := getOrCreateSettings(ctx, models.SettingsLeads, chatbotID, defaults, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateLeadsSettings replaces the leads settings for a chatbot
func UpdateLeadsSettings(ctx context.Context, chatbotID string, in *models.LeadsSettings) (*models.LeadsSettings, error) {
	var settings models.LeadsSettings
	set := bson.M{
		"enabled":       in.Enabled,
		"title":         in.Title,
		"collect_name":  in.CollectName,
		"collect_email": in.CollectEmail,
		"collect_phone": in.CollectPhone,
	}
	if err := replaceSettings(ctx, models.SettingsLeads, chatbotID, set, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetNotificationSettings returns the notification settings for a chatbot
func GetNotificationSettings(ctx context.Context, chatbotID string) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	defaults := bson.M{
		"daily_leads_email":  false,
		"daily_convos_email": false,
		"recipients":         []string{},
	}
	if err := getOrCreateSettings(ctx, models.SettingsNotifications, chatbotID, defaults, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateNotificationSettings replaces the notification settings for a chatbot
func UpdateNotificationSettings(ctx context.Context, chatbotID string, in *models.NotificationSettings) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	set := bson.M{
		"daily_leads_email":  in.DailyLeadsEmail,
		"daily_convos_email": in.DailyConvosEmail,
		"recipients":         in.Recipients,
	}
	if err := replaceSettings(ctx, models.SettingsNotifications, chatbotID, set, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetVisibilitySettings returns the visibility settings for a chatbot
func GetVisibilitySettings(ctx context.Context, chatbotID string) (*models.VisibilitySettings, error) {
	var settings models.VisibilitySettings
	defaults := bson.M{
		"public":          false,
		"allowed_domains": []string{},
	}
	if err := getOrCreateSettings(ctx, models.SettingsVisibility, chatbotID, defaults, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateVisibilitySettings replaces the visibility settings for a chatbot
func UpdateVisibilitySettings(ctx context.Context, chatbotID string, in *models.VisibilitySettings) (*models.VisibilitySettings, error) {
	var settings models.VisibilitySettings
	set := bson.M{
		"public":          in.Public,
		"allowed_domains": in.AllowedDomains,
	}
	if err := replaceSettings(ctx, models.SettingsVisibility, chatbotID, set, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetWebhookSettings returns the webhook settings for a chatbot
func GetWebhookSettings(ctx context.Context, chatbotID string) (*models.WebhookSettings, error) {
	var settings models.WebhookSettings
	defaults := bson.M{
		"enabled":      false,
		"lead_events":  true,
		"convo_events": false,
	}
	if err := getOrCreateSettings(ctx, models.SettingsWebhooks, chatbotID, defaults, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateWebhookSettings replaces the webhook settings for a chatbot
func UpdateWebhookSettings(ctx context.Context, chatbotID string, in *models.WebhookSettings) (*models.WebhookSettings, error) {
	var settings models.WebhookSettings
	set := bson.M{
		"enabled":      in.Enabled,
		"endpoint_url": in.EndpointURL,
		"signing_key":  in.SigningKey,
		"lead_events":  in.LeadEvents,
		"convo_events": in.ConvoEvents,
	}
	if err := replaceSettings(ctx, models.SettingsWebhooks, chatbotID, set, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

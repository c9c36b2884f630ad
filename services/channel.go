package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatsa-backend/models"
)

// LinkFacebookPage associates a Facebook page with a chatbot. The
// page_id+chatbot_id unique index makes re-linking a refresh, not a
// duplicate.
func LinkFacebookPage(ctx context.Context, page *models.FacebookPage) error {
	collection := database.Collection("facebook_pages")

	filter := bson.M{"page_id": page.PageID, "chatbot_id": page.ChatbotID}
	update := bson.M{
		"$set": bson.M{
			"name":         page.Name,
			"access_token": page.AccessToken,
		},
		"$setOnInsert": bson.M{
			"page_id":    page.PageID,
			"chatbot_id": page.ChatbotID,
			"created_at": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to link facebook page: %w", err)
	}

	slog.Info("Facebook page linked", "pageID", page.PageID, "chatbotID", page.ChatbotID)
	return nil
}

// UnlinkFacebookPage removes a page link from a chatbot
func UnlinkFacebookPage(ctx context.Context, chatbotID, pageID string) error {
	collection := database.Collection("facebook_pages")

	result, err := collection.DeleteOne(ctx, bson.M{"page_id": pageID, "chatbot_id": chatbotID})
	if err != nil {
		return fmt.Errorf("failed to unlink facebook page: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFacebookPages returns the Facebook pages linked to a chatbot
func ListFacebookPages(ctx context.Context, chatbotID string) ([]models.FacebookPage, error) {
	collection := database.Collection("facebook_pages")

	cursor, err := collection.Find(ctx, bson.M{"chatbot_id": chatbotID})
	if err != nil {
		return nil, fmt.Errorf("failed to list facebook pages: %w", err)
	}
	defer cursor.Close(ctx)

	var pages []models.FacebookPage
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("failed to decode facebook pages: %w", err)
	}
	return pages, nil
}

// GetFacebookPageByPageID finds the link record for a platform page id.
// Used by the webhook to route an event to its chatbot.
func GetFacebookPageByPageID(ctx context.Context, pageID string) (*models.FacebookPage, error) {
	collection := database.Collection("facebook_pages")

	var page models.FacebookPage
	err := collection.FindOne(ctx, bson.M{"page_id": pageID}).Decode(&page)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get facebook page: %w", err)
	}
	return &page, nil
}

// LinkInstagramPage associates an Instagram business account with a chatbot
func LinkInstagramPage(ctx context.Context, page *models.InstagramPage) error {
	collection := database.Collection("instagram_pages")

	filter := bson.M{"page_id": page.PageID, "chatbot_id": page.ChatbotID}
	update := bson.M{
		"$set": bson.M{
			"name":         page.Name,
			"access_token": page.AccessToken,
		},
		"$setOnInsert": bson.M{
			"page_id":    page.PageID,
			"chatbot_id": page.ChatbotID,
			"created_at": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to link instagram page: %w", err)
	}

	slog.Info("Instagram page linked", "pageID", page.PageID, "chatbotID", page.ChatbotID)
	return nil
}

// ListInstagramPages returns the Instagram accounts linked to a chatbot
func ListInstagramPages(ctx context.Context, chatbotID string) ([]models.InstagramPage, error) {
	collection := database.Collection("instagram_pages")

	cursor, err := collection.Find(ctx, bson.M{"chatbot_id": chatbotID})
	if err != nil {
		return nil, fmt.Errorf("failed to list instagram pages: %w", err)
	}
	defer cursor.Close(ctx)

	var pages []models.InstagramPage
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("failed to decode instagram pages: %w", err)
	}
	return pages, nil
}

// SubscribeZapierHook registers a Zapier hook URL for a chatbot. The
// hook_url unique index rejects duplicate subscriptions.
func SubscribeZapierHook(ctx context.Context, hook *models.ZapierHook) error {
	collection := database.Collection("zapier_hooks")

	hook.CreatedAt = time.Now()
	_, err := collection.InsertOne(ctx, hook)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("hook URL already subscribed")
		}
		return fmt.Errorf("failed to subscribe hook: %w", err)
	}

	slog.Info("Zapier hook subscribed", "chatbotID", hook.ChatbotID)
	return nil
}

// UnsubscribeZapierHook removes a hook by its URL
func UnsubscribeZapierHook(ctx context.Context, hookURL string) error {
	collection := database.Collection("zapier_hooks")

	result, err := collection.DeleteOne(ctx, bson.M{"hook_url": hookURL})
	if err != nil {
		return fmt.Errorf("failed to unsubscribe hook: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListZapierHooks returns the hooks registered for a chatbot
func ListZapierHooks(ctx context.Context, chatbotID string) ([]models.ZapierHook, error) {
	collection := database.Collection("zapier_hooks")

	cursor, err := collection.Find(ctx, bson.M{"chatbot_id": chatbotID})
	if err != nil {
		return nil, fmt.Errorf("failed to list hooks: %w", err)
	}
	defer cursor.Close(ctx)

	var hooks []models.ZapierHook
	if err := cursor.All(ctx, &hooks); err != nil {
		return nil, fmt.Errorf("failed to decode hooks: %w", err)
	}
	return hooks, nil
}

var zapierClient = &http.Client{Timeout: 10 * time.Second}

// RelayToZapierHooks posts a payload to every hook registered for a
// chatbot. Individual hook failures are logged and do not stop the relay.
func RelayToZapierHooks(ctx context.Context, chatbotID string, payload interface{}) {
	hooks, err := ListZapierHooks(ctx, chatbotID)
	if err != nil {
		slog.Error("Failed to load hooks for relay", "error", err, "chatbotID", chatbotID)
		return
	}
	if len(hooks) == 0 {
		return
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal relay payload", "error", err)
		return
	}

	for _, hook := range hooks {
		req, err := http.NewRequestWithContext(ctx, "POST", hook.HookURL, bytes.NewBuffer(jsonData))
		if err != nil {
			slog.Error("Failed to build relay request", "error", err, "chatbotID", chatbotID)
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := zapierClient.Do(req)
		if err != nil {
			slog.Error("Failed to relay to hook", "error", err, "chatbotID", chatbotID)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 300 {
			slog.Warn("Hook relay rejected", "status", resp.StatusCode, "chatbotID", chatbotID)
		}
	}
}

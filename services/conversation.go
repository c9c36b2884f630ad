package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatsa-backend/models"
)

// AppendConversationMessage appends a message to the transcript between an
// external user and a chatbot, creating the conversation on first contact.
// Messages are append-only; nothing is ever rewritten.
func AppendConversationMessage(ctx context.Context, chatbotID, externalUserID, channel string, msg models.ConversationMessage) error {
	if !models.IsValidMessageRole(string(msg.Role)) {
		return fmt.Errorf("invalid message role: %s", msg.Role)
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	collection := database.Collection("conversations")

	now := time.Now()
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"chatbot_id":       chatbotID,
			"external_user_id": externalUserID,
			"channel":          channel,
			"created_at":       now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx,
		bson.M{"chatbot_id": chatbotID, "external_user_id": externalUserID},
		update,
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to append conversation message: %w", err)
	}

	return nil
}

// GetConversation fetches the transcript for one external user and chatbot
func GetConversation(ctx context.Context, chatbotID, externalUserID string) (*models.Conversation, error) {
	collection := database.Collection("conversations")

	var conversation models.Conversation
	err := collection.FindOne(ctx, bson.M{
		"chatbot_id":       chatbotID,
		"external_user_id": externalUserID,
	}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &conversation, nil
}

// ListConversations returns the conversations of a chatbot, most recently
// active first
func ListConversations(ctx context.Context, chatbotID string, limit int) ([]models.Conversation, error) {
	collection := database.Collection("conversations")

	if limit <= 0 {
		limit = 50
	}

	cursor, err := collection.Find(ctx,
		bson.M{"chatbot_id": chatbotID},
		options.Find().SetSort(bson.M{"updated_at": -1}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}

	return conversations, nil
}

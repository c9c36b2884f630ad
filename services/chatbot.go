package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatsa-backend/models"
)

// CreateChatbot creates a new chatbot under a team
func CreateChatbot(ctx context.Context, chatbot *models.Chatbot) error {
	collection := database.Collection("chatbots")

	if chatbot.ChatbotID == "" {
		chatbot.ChatbotID = uuid.NewString()
	}

	chatbot.CreatedAt = time.Now()
	chatbot.UpdatedAt = time.Now()

	_, err := collection.InsertOne(ctx, chatbot)
	if err != nil {
		return fmt.Errorf("failed to create chatbot: %w", err)
	}

	slog.Info("Chatbot created",
		"chatbotID", chatbot.ChatbotID,
		"teamID", chatbot.TeamID)

	return nil
}

// GetChatbotByID retrieves a chatbot by its chatbot ID
func GetChatbotByID(ctx context.Context, chatbotID string) (*models.Chatbot, error) {
	collection := database.Collection("chatbots")

	var chatbot models.Chatbot
	err := collection.FindOne(ctx, bson.M{"chatbot_id": chatbotID}).Decode(&chatbot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chatbot: %w", err)
	}

	return &chatbot, nil
}

// ListChatbotsByTeam returns the chatbots of a team, newest first
func ListChatbotsByTeam(ctx context.Context, teamID string) ([]models.Chatbot, error) {
	collection := database.Collection("chatbots")

	cursor, err := collection.Find(ctx,
		bson.M{"team_id": teamID},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chatbots: %w", err)
	}
	defer cursor.Close(ctx)

	var chatbots []models.Chatbot
	if err := cursor.All(ctx, &chatbots); err != nil {
		return nil, fmt.Errorf("failed to decode chatbots: %w", err)
	}

	return chatbots, nil
}

// GetChatbotNames returns a name per chatbot id for exactly the ids that
// exist. Unknown ids are simply absent from the result; an empty input
// yields an empty map.
func GetChatbotNames(ctx context.Context, chatbotIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(chatbotIDs))
	if len(chatbotIDs) == 0 {
		return names, nil
	}

	collection := database.Collection("chatbots")

	cursor, err := collection.Find(ctx,
		bson.M{"chatbot_id": bson.M{"$in": chatbotIDs}},
		options.Find().SetProjection(bson.M{"chatbot_id": 1, "name": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up chatbot names: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ChatbotID string `bson:"chatbot_id"`
		Name      string `bson:"name"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode chatbot names: %w", err)
	}

	for _, row := range rows {
		names[row.ChatbotID] = row.Name
	}

	return names, nil
}

// AddChatbotSource appends a knowledge source to a chatbot, preserving order
func AddChatbotSource(ctx context.Context, chatbotID string, source models.Source) error {
	collection := database.Collection("chatbots")

	result, err := collection.UpdateOne(ctx,
		bson.M{"chatbot_id": chatbotID},
		bson.M{
			"$push": bson.M{"sources": source},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteChatbot removes a chatbot together with its settings records and
// channel links. Conversations are kept for history.
func DeleteChatbot(ctx context.Context, chatbotID string) error {
	result, err := database.Collection("chatbots").DeleteOne(ctx, bson.M{"chatbot_id": chatbotID})
	if err != nil {
		return fmt.Errorf("failed to delete chatbot: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	filter := bson.M{"chatbot_id": chatbotID}
	for _, name := range []string{
		"leads_settings", "notification_settings", "visibility_settings", "webhook_settings",
		"facebook_pages", "instagram_pages", "zapier_hooks",
	} {
		if _, err := database.Collection(name).DeleteMany(ctx, filter); err != nil {
			slog.Error("Failed to delete chatbot side records",
				"error", err,
				"collection", name,
				"chatbotID", chatbotID)
		}
	}

	slog.Info("Chatbot deleted", "chatbotID", chatbotID)
	return nil
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a lookup or update targets a document that
// does not exist. Handlers map it to HTTP 404.
var ErrNotFound = errors.New("not found")

var (
	mongoClient *mongo.Client
	database    *mongo.Database
)

// GetDatabase returns the MongoDB database instance
func GetDatabase() *mongo.Database {
	return database
}

// InitMongoDB initializes MongoDB connection
func InitMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	slog.Info("Connected to MongoDB")
	mongoClient = client

	return client, nil
}

// InitServices initializes all services
func InitServices(client *mongo.Client, databaseName string) {
	database = client.Database(databaseName)

	// Create indexes
	createIndexes()
}

// createIndexes creates necessary database indexes
func createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Teams collection indexes
	teamsCollection := database.Collection("teams")
	teamsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"team_id": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"created_by": 1}},
		{Keys: bson.M{"created_at": -1}},
	})

	// Chatbots collection indexes
	chatbotsCollection := database.Collection("chatbots")
	chatbotsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"chatbot_id": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"team_id": 1}},
	})

	// Per-kind settings collections, one record per chatbot
	for _, name := range []string{"leads_settings", "notification_settings", "visibility_settings", "webhook_settings"} {
		database.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.M{"chatbot_id": 1},
			Options: options.Index().SetUnique(true),
		})
	}

	// Conversations collection indexes
	conversationsCollection := database.Collection("conversations")
	conversationsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "chatbot_id", Value: 1}, {Key: "external_user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"updated_at": -1}},
	})

	// Channel link collections: a page can only be linked to a chatbot once
	for _, name := range []string{"facebook_pages", "instagram_pages"} {
		database.Collection(name).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "page_id", Value: 1}, {Key: "chatbot_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.M{"chatbot_id": 1}},
			{Keys: bson.M{"page_id": 1}},
		})
	}

	// Zapier hooks: hook_url is globally unique
	zapierCollection := database.Collection("zapier_hooks")
	zapierCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"hook_url": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"chatbot_id": 1}},
	})

	// Users collection indexes
	usersCollection := database.Collection("users")
	usersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	})
}

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

// CreateTeam creates a new team owned by the given user
func CreateTeam(ctx context.Context, team *models.Team) error {
	collection := database.Collection("teams")

	if team.TeamID == "" {
		team.TeamID = uuid.NewString()
	}

	team.CreatedAt = time.Now()
	team.UpdatedAt = time.Now()

	_, err := collection.InsertOne(ctx, team)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	slog.Info("Team created",
		"teamID", team.TeamID,
		"createdBy", team.CreatedBy)

	return nil
}

// GetTeamByID retrieves a team by its team ID
func GetTeamByID(ctx context.Context, teamID string) (*models.Team, error) {
	collection := database.Collection("teams")

	var team models.Team
	err := collection.FindOne(ctx, bson.M{"team_id": teamID}).Decode(&team)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// ListTeamsForUser returns the teams created by a user, newest first, with
// a real chatbot count per team. Counts come from a single grouped
// aggregation over the chatbots collection rather than one query per team.
func ListTeamsForUser(ctx context.Context, userID string) ([]models.TeamSummary, error) {
	collection := database.Collection("teams")

	cursor, err := collection.Find(ctx,
		bson.M{"created_by": userID},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %w", err)
	}

	teamIDs := make([]string, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.TeamID)
	}

	counts, err := countChatbotsByTeam(ctx, teamIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.TeamSummary, 0, len(teams))
	for _, t := range teams {
		summaries = append(summaries, models.TeamSummary{
			ID:            t.TeamID,
			Name:          DeriveTeamName(t.Name, t.TeamID),
			ChatbotsCount: counts[t.TeamID],
			CreatedAt:     t.CreatedAt,
		})
	}

	return summaries, nil
}

// countChatbotsByTeam returns a chatbot count per team id in one grouped query
func countChatbotsByTeam(ctx context.Context, teamIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(teamIDs))
	if len(teamIDs) == 0 {
		return counts, nil
	}

	collection := database.Collection("chatbots")

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"team_id": bson.M{"$in": teamIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$team_id", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count chatbots: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TeamID string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode chatbot counts: %w", err)
	}

	for _, row := range rows {
		counts[row.TeamID] = row.Count
	}

	return counts, nil
}

// DeriveTeamName returns the stored name, or a deterministic placeholder
// built from the tail of the team id when none was set.
func DeriveTeamName(name, teamID string) string {
	if name != "" {
		return name
	}
	tail := teamID
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return "Team " + tail
}

// TeamUpdate holds the mutable fields of a team
type TeamUpdate struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	BillingInfo *models.BillingInfo `json:"billing_info"`
}

// UpdateTeam replaces the mutable fields of a team and returns the updated
// document. Returns ErrNotFound when no team matches the id.
func UpdateTeam(ctx context.Context, teamID string, update TeamUpdate) (*models.Team, error) {
	collection := database.Collection("teams")

	set := bson.M{
		"name":        update.Name,
		"description": update.Description,
		"updated_at":  time.Now(),
	}
	if update.BillingInfo != nil {
		set["billing_info"] = update.BillingInfo
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var team models.Team
	err := collection.FindOneAndUpdate(ctx,
		bson.M{"team_id": teamID},
		bson.M{"$set": set},
		opts,
	).Decode(&team)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return &team, nil
}

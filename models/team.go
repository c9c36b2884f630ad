package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is the billing/ownership aggregate grouping chatbots under a creator
type Team struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID      string             `bson:"team_id" json:"team_id"`
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	BillingInfo *BillingInfo       `bson:"billing_info,omitempty" json:"billing_info,omitempty"`
	CreatedBy   string             `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// BillingInfo holds the billing facet of a team
type BillingInfo struct {
	Plan         string `bson:"plan,omitempty" json:"plan,omitempty"`
	BillingEmail string `bson:"billing_email,omitempty" json:"billing_email,omitempty"`
	CustomerID   string `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
}

// TeamSummary is the directory listing entry for a team
type TeamSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ChatbotsCount int64     `json:"chatbots_count"`
	CreatedAt     time.Time `json:"created_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Goal statuses. "paused" is a valid stored state but no service operation
// sets it; external writers may.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPaused    = "paused"
)

var ValidFrequencies = map[string]bool{
	FrequencyDaily:   true,
	FrequencyWeekly:  true,
	FrequencyMonthly: true,
}

// SavingsLog is one recorded contribution toward a goal. Logs are append-only:
// they are never edited or removed individually, and their insertion order is
// the chronological order.
type SavingsLog struct {
	ID     string    `bson:"id" json:"id"`
	Amount float64   `bson:"amount" json:"amount"`
	Date   time.Time `bson:"date" json:"date"`
}

// Goal is a savings target tied to a product. Logs are embedded in the goal
// document so deleting the goal cascades to its history.
type Goal struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"user_id" json:"userId"`
	ProductName       string             `bson:"product_name" json:"productName"`
	ProductURL        string             `bson:"product_url,omitempty" json:"productUrl,omitempty"`
	ImageURL          string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Category          string             `bson:"category,omitempty" json:"category,omitempty"`
	CarbonFootprintKg float64            `bson:"carbon_footprint_kg" json:"carbonFootprintKg"`
	TargetAmount      float64            `bson:"target_amount" json:"targetAmount"`
	CurrentAmount     float64            `bson:"current_amount" json:"currentAmount"`
	Currency          string             `bson:"currency" json:"currency"`
	StartDate         time.Time          `bson:"start_date" json:"startDate"`
	TargetDate        time.Time          `bson:"target_date" json:"targetDate"`
	Frequency         string             `bson:"frequency" json:"frequency"`
	Status            string             `bson:"status" json:"status"`
	Logs              []SavingsLog       `bson:"logs" json:"logs"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Remaining returns how much is still needed to fund the goal. Never negative.
func (g *Goal) Remaining() float64 {
	remaining := g.TargetAmount - g.CurrentAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

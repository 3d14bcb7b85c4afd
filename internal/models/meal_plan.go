package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Frequency string

const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyBiWeekly  Frequency = "BI_WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

var AllowedFrequencies = map[Frequency]bool{
	FrequencyDaily:     true,
	FrequencyWeekly:    true,
	FrequencyBiWeekly:  true,
	FrequencyMonthly:   true,
	FrequencyQuarterly: true,
	FrequencyYearly:    true,
}

func ParseFrequency(s string) (Frequency, bool) {
	f := Frequency(strings.ToUpper(strings.TrimSpace(s)))
	return f, AllowedFrequencies[f]
}

type MealPlan struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   time.Time            `bson:"start_date" json:"start_date"`
	EndDate     time.Time            `bson:"end_date" json:"end_date"`
	Frequency   Frequency            `bson:"frequency" json:"frequency"`
	MealsPerDay int                  `bson:"meals_per_day" json:"meals_per_day"`
	RecipeIDs   []primitive.ObjectID `bson:"recipe_ids,omitempty" json:"recipe_ids,omitempty"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

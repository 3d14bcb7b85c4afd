package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationPreferences controls which scheduled notifications a user receives.
type NotificationPreferences struct {
	Enabled               bool `bson:"enabled" json:"enabled"`
	RecipeRecommendations bool `bson:"recipe_recommendations" json:"recipe_recommendations"`
	MealPlanReminders     bool `bson:"meal_plan_reminders" json:"meal_plan_reminders"`
	Email                 bool `bson:"email" json:"email"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		Enabled:               true,
		RecipeRecommendations: true,
		MealPlanReminders:     true,
	}
}

func (p NotificationPreferences) RemindersEnabled() bool {
	return p.Enabled && p.MealPlanReminders
}

// User represents a user account in the Recipe Manager system.
type User struct {
	ID                      primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	Username                string                  `bson:"username" json:"username"`
	Email                   string                  `bson:"email" json:"email"`
	HashedPassword          string                  `bson:"hashed_password" json:"password,omitempty"`
	Role                    string                  `bson:"role" json:"role"`
	DietaryRestrictionIDs   []primitive.ObjectID    `bson:"dietary_restriction_ids" json:"dietary_restriction_ids"`
	NotificationPreferences NotificationPreferences `bson:"notification_preferences" json:"notification_preferences"`
	CreatedAt               time.Time               `bson:"created_at" json:"created_at"`
	UpdatedAt               time.Time               `bson:"updated_at" json:"updated_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationSearchMatch      = "search_match"
	NotificationMealPlanReminder = "meal_plan_reminder"
	NotificationGeneral          = "general"
)

type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Type      string              `bson:"type" json:"type"`                               // e.g. "search_match", "meal_plan_reminder"
	Title     string              `bson:"title" json:"title"`                             // Short headline
	Message   string              `bson:"message" json:"message"`                         // Descriptive content
	Read      bool                `bson:"read" json:"read"`                               // True if user viewed it
	TargetID  *primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"` // Meal plan or recipe reference
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

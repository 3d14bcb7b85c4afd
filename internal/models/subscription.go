package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription is a saved search re-evaluated against newly created recipes.
// Criteria holds the serialized criteria envelope and is opaque to the store.
type Subscription struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	Criteria       string             `bson:"criteria" json:"-"`
	SearchCriteria *SearchCriteria    `bson:"-" json:"criteria,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	LastNotified   *time.Time         `bson:"last_notified,omitempty" json:"last_notified,omitempty"`
}

// Watermark is the instant after which recipes count as new for this subscription.
func (s *Subscription) Watermark() time.Time {
	if s.LastNotified != nil {
		return *s.LastNotified
	}
	return s.CreatedAt
}

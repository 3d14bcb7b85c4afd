package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogItem is an entry of a named lookup list such as ingredients or meal types.
// Names are unique within their catalog.
type CatalogItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

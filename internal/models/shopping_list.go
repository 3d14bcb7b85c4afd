package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShoppingListItem is one ingredient to buy. An ingredient used by several recipes
// of the list appears once with the quantities joined.
type ShoppingListItem struct {
	IngredientID primitive.ObjectID   `bson:"ingredient_id" json:"ingredient_id"`
	Name         string               `bson:"name" json:"name"`
	Quantity     string               `bson:"quantity,omitempty" json:"quantity,omitempty"`
	RecipeIDs    []primitive.ObjectID `bson:"recipe_ids" json:"recipe_ids"`
	Purchased    bool                 `bson:"purchased" json:"purchased"`
}

type ShoppingList struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Title     string               `bson:"title" json:"title"`
	RecipeIDs []primitive.ObjectID `bson:"recipe_ids" json:"recipe_ids"`
	Items     []ShoppingListItem   `bson:"items" json:"items"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// ShoppingListPage is one page of a user's shopping lists, newest first.
type ShoppingListPage struct {
	Content       []ShoppingList `json:"content"`
	TotalElements int64          `json:"total_elements"`
	TotalPages    int            `json:"total_pages"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
}

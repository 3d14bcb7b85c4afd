package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "EASY"
	DifficultyMedium DifficultyLevel = "MEDIUM"
	DifficultyHard   DifficultyLevel = "HARD"
)

// ParseDifficulty accepts the level name in any letter case.
func ParseDifficulty(s string) (DifficultyLevel, bool) {
	switch DifficultyLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyMedium:
		return DifficultyMedium, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return "", false
}

// Recipe is a user-authored recipe. Times are in minutes.
type Recipe struct {
	ID                    primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID                primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Title                 string               `bson:"title" json:"title"`
	Description           string               `bson:"description,omitempty" json:"description,omitempty"`
	PreparationTime       int                  `bson:"preparation_time" json:"preparation_time"`
	CookingTime           int                  `bson:"cooking_time" json:"cooking_time"`
	DifficultyLevel       DifficultyLevel      `bson:"difficulty_level" json:"difficulty_level"`
	Servings              int                  `bson:"servings" json:"servings"`
	Steps                 []string             `bson:"steps,omitempty" json:"steps,omitempty"`
	IngredientIDs         []primitive.ObjectID `bson:"ingredient_ids" json:"ingredient_ids"`
	Ingredients           []RecipeIngredient   `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	MealTypeIDs           []primitive.ObjectID `bson:"meal_type_ids" json:"meal_type_ids"`
	DietaryRestrictionIDs []primitive.ObjectID `bson:"dietary_restriction_ids" json:"dietary_restriction_ids"`
	CreatedAt             time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time            `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// RecipeIngredient attaches a free-form quantity such as "200 g" to a catalog ingredient.
type RecipeIngredient struct {
	IngredientID primitive.ObjectID `bson:"ingredient_id" json:"ingredient_id"`
	Quantity     string             `bson:"quantity" json:"quantity"`
}

// RecipeIngredientView is a recipe ingredient resolved against the ingredient catalog.
type RecipeIngredientView struct {
	IngredientID primitive.ObjectID `json:"ingredient_id"`
	Name         string             `json:"name"`
	Quantity     string             `json:"quantity"`
}

// SetIngredients replaces the quantified ingredients and keeps IngredientIDs, which
// search filters on, in step with them.
func (r *Recipe) SetIngredients(ingredients []RecipeIngredient) {
	r.Ingredients = ingredients
	r.IngredientIDs = make([]primitive.ObjectID, 0, len(ingredients))
	for _, ing := range ingredients {
		r.IngredientIDs = append(r.IngredientIDs, ing.IngredientID)
	}
}

func (r *Recipe) TotalTime() int {
	return r.PreparationTime + r.CookingTime
}

// CoversRestrictions reports whether the recipe carries every one of the given restriction ids.
// An empty restriction set is covered by any recipe.
func (r *Recipe) CoversRestrictions(restrictionIDs []primitive.ObjectID) bool {
	if len(restrictionIDs) == 0 {
		return true
	}
	have := make(map[primitive.ObjectID]struct{}, len(r.DietaryRestrictionIDs))
	for _, id := range r.DietaryRestrictionIDs {
		have[id] = struct{}{}
	}
	for _, id := range restrictionIDs {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

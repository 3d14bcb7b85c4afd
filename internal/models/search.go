package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SearchCriteria is the flat set of optional recipe search fields. A nil or blank
// field contributes no filter.
type SearchCriteria struct {
	Title           string               `json:"title,omitempty"`
	IngredientIDs   []primitive.ObjectID `json:"ingredient_ids,omitempty"`
	DifficultyLevel string               `json:"difficulty_level,omitempty"`
	MinTotalTime    *int                 `json:"min_total_time,omitempty"`
	MaxTotalTime    *int                 `json:"max_total_time,omitempty"`
	UserID          *primitive.ObjectID  `json:"user_id,omitempty"`
	MealTypeIDs     []primitive.ObjectID `json:"meal_type_ids,omitempty"`
	Servings        *int                 `json:"servings,omitempty"`
	Page            int                  `json:"page"`
	Size            int                  `json:"size"`
	SortBy          string               `json:"sort_by,omitempty"`
	SortDirection   string               `json:"sort_direction,omitempty"`
}

// RecipePage is one page of search results.
type RecipePage struct {
	Content        []Recipe        `json:"content"`
	TotalElements  int64           `json:"total_elements"`
	TotalPages     int             `json:"total_pages"`
	Page           int             `json:"page"`
	Size           int             `json:"size"`
	DroppedFilters []DroppedFilter `json:"dropped_filters,omitempty"`
}

// DroppedFilter records a supplied criteria field that was ignored.
type DroppedFilter struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

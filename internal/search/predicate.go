// Package search compiles recipe search criteria into predicates that can be
// evaluated in memory or pushed down to MongoDB as a filter document.
package search

import (
	"regexp"
	"strings"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter is one named recipe test together with the equivalent MongoDB filter.
type Filter struct {
	Name  string
	Match func(*models.Recipe) bool
	Doc   bson.M
}

// And matches when every filter matches. And with no filters matches everything.
func And(name string, filters ...Filter) Filter {
	if len(filters) == 0 {
		return Filter{Name: name, Match: func(*models.Recipe) bool { return true }, Doc: bson.M{}}
	}
	if len(filters) == 1 {
		f := filters[0]
		f.Name = name
		return f
	}
	docs := make(bson.A, 0, len(filters))
	for _, f := range filters {
		docs = append(docs, f.Doc)
	}
	return Filter{
		Name: name,
		Match: func(r *models.Recipe) bool {
			for _, f := range filters {
				if !f.Match(r) {
					return false
				}
			}
			return true
		},
		Doc: bson.M{"$and": docs},
	}
}

// Or matches when at least one filter matches. Or with no filters matches nothing.
func Or(name string, filters ...Filter) Filter {
	if len(filters) == 0 {
		return Filter{Name: name, Match: func(*models.Recipe) bool { return false }, Doc: bson.M{"$expr": false}}
	}
	if len(filters) == 1 {
		f := filters[0]
		f.Name = name
		return f
	}
	docs := make(bson.A, 0, len(filters))
	for _, f := range filters {
		docs = append(docs, f.Doc)
	}
	return Filter{
		Name: name,
		Match: func(r *models.Recipe) bool {
			for _, f := range filters {
				if f.Match(r) {
					return true
				}
			}
			return false
		},
		Doc: bson.M{"$or": docs},
	}
}

// TitleContains is a case-insensitive substring test on the title.
func TitleContains(q string) Filter {
	needle := strings.ToLower(q)
	return Filter{
		Name: "title",
		Match: func(r *models.Recipe) bool {
			return strings.Contains(strings.ToLower(r.Title), needle)
		},
		Doc: bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}},
	}
}

func DifficultyIs(level models.DifficultyLevel) Filter {
	return Filter{
		Name:  "difficulty_level",
		Match: func(r *models.Recipe) bool { return r.DifficultyLevel == level },
		Doc:   bson.M{"difficulty_level": level},
	}
}

var totalTimeExpr = bson.M{"$add": bson.A{"$preparation_time", "$cooking_time"}}

// TotalTimeAtLeast bounds preparation plus cooking time from below, inclusive.
func TotalTimeAtLeast(minutes int) Filter {
	return Filter{
		Name:  "min_total_time",
		Match: func(r *models.Recipe) bool { return r.TotalTime() >= minutes },
		Doc:   bson.M{"$expr": bson.M{"$gte": bson.A{totalTimeExpr, minutes}}},
	}
}

// TotalTimeAtMost bounds preparation plus cooking time from above, inclusive.
func TotalTimeAtMost(minutes int) Filter {
	return Filter{
		Name:  "max_total_time",
		Match: func(r *models.Recipe) bool { return r.TotalTime() <= minutes },
		Doc:   bson.M{"$expr": bson.M{"$lte": bson.A{totalTimeExpr, minutes}}},
	}
}

func OwnedBy(userID primitive.ObjectID) Filter {
	return Filter{
		Name:  "user_id",
		Match: func(r *models.Recipe) bool { return r.UserID == userID },
		Doc:   bson.M{"user_id": userID},
	}
}

func ServingsEqual(n int) Filter {
	return Filter{
		Name:  "servings",
		Match: func(r *models.Recipe) bool { return r.Servings == n },
		Doc:   bson.M{"servings": n},
	}
}

func HasIngredient(id primitive.ObjectID) Filter {
	return Filter{
		Name:  "ingredient",
		Match: func(r *models.Recipe) bool { return containsID(r.IngredientIDs, id) },
		Doc:   bson.M{"ingredient_ids": id},
	}
}

func HasMealType(id primitive.ObjectID) Filter {
	return Filter{
		Name:  "meal_type",
		Match: func(r *models.Recipe) bool { return containsID(r.MealTypeIDs, id) },
		Doc:   bson.M{"meal_type_ids": id},
	}
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

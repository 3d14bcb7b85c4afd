package search

import (
	"strings"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Predicate is the conjunction of the filters compiled from a SearchCriteria.
type Predicate struct {
	Filters []Filter
	// Dropped lists supplied fields that could not be turned into a filter.
	Dropped []models.DroppedFilter
}

// Compile turns criteria into a predicate. Blank fields add no filter; an
// unknown difficulty level is dropped rather than rejected.
func Compile(c models.SearchCriteria) *Predicate {
	p := &Predicate{}

	if strings.TrimSpace(c.Title) != "" {
		p.Filters = append(p.Filters, TitleContains(c.Title))
	}

	if len(c.IngredientIDs) > 0 {
		anyOf := make([]Filter, 0, len(c.IngredientIDs))
		for _, id := range c.IngredientIDs {
			anyOf = append(anyOf, HasIngredient(id))
		}
		p.Filters = append(p.Filters, Or("ingredient_ids", anyOf...))
	}

	if strings.TrimSpace(c.DifficultyLevel) != "" {
		if level, ok := models.ParseDifficulty(c.DifficultyLevel); ok {
			p.Filters = append(p.Filters, DifficultyIs(level))
		} else {
			p.Dropped = append(p.Dropped, models.DroppedFilter{
				Field:  "difficulty_level",
				Value:  c.DifficultyLevel,
				Reason: "unknown difficulty level, expected EASY, MEDIUM or HARD",
			})
		}
	}

	if c.MinTotalTime != nil {
		p.Filters = append(p.Filters, TotalTimeAtLeast(*c.MinTotalTime))
	}
	if c.MaxTotalTime != nil {
		p.Filters = append(p.Filters, TotalTimeAtMost(*c.MaxTotalTime))
	}

	if c.UserID != nil {
		p.Filters = append(p.Filters, OwnedBy(*c.UserID))
	}

	if len(c.MealTypeIDs) > 0 {
		anyOf := make([]Filter, 0, len(c.MealTypeIDs))
		for _, id := range c.MealTypeIDs {
			anyOf = append(anyOf, HasMealType(id))
		}
		p.Filters = append(p.Filters, Or("meal_type_ids", anyOf...))
	}

	if c.Servings != nil {
		p.Filters = append(p.Filters, ServingsEqual(*c.Servings))
	}

	return p
}

// Match reports whether the recipe satisfies every filter.
func (p *Predicate) Match(r *models.Recipe) bool {
	for _, f := range p.Filters {
		if !f.Match(r) {
			return false
		}
	}
	return true
}

// Doc returns the MongoDB filter document for the predicate.
func (p *Predicate) Doc() bson.M {
	return And("criteria", p.Filters...).Doc
}

// Names lists the applied filters in compile order.
func (p *Predicate) Names() []string {
	names := make([]string, 0, len(p.Filters))
	for _, f := range p.Filters {
		names = append(names, f.Name)
	}
	return names
}

// Apply returns the matching recipes, deduplicated by id, in input order.
func (p *Predicate) Apply(recipes []models.Recipe) []models.Recipe {
	var out []models.Recipe
	for i := range recipes {
		if p.Match(&recipes[i]) {
			out = append(out, recipes[i])
		}
	}
	return Dedup(out)
}

// Dedup drops repeated recipe ids, keeping the first occurrence.
func Dedup(recipes []models.Recipe) []models.Recipe {
	if len(recipes) < 2 {
		return recipes
	}
	seen := make(map[primitive.ObjectID]struct{}, len(recipes))
	out := recipes[:0:0]
	for _, r := range recipes {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

var ErrUnknownSortField = errors.New("unknown sort field")

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPageNumber bounds Number so Skip stays far from overflow.
	MaxPageNumber = 1_000_000
)

type sortField struct {
	key     string
	compare func(a, b *models.Recipe) int
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

var sortFields = map[string]sortField{
	"title": {"title", func(a, b *models.Recipe) int { return strings.Compare(a.Title, b.Title) }},
	"preparation_time": {"preparation_time", func(a, b *models.Recipe) int {
		return compareInts(a.PreparationTime, b.PreparationTime)
	}},
	"cooking_time": {"cooking_time", func(a, b *models.Recipe) int {
		return compareInts(a.CookingTime, b.CookingTime)
	}},
	"difficulty_level": {"difficulty_level", func(a, b *models.Recipe) int {
		return strings.Compare(string(a.DifficultyLevel), string(b.DifficultyLevel))
	}},
	"servings": {"servings", func(a, b *models.Recipe) int { return compareInts(a.Servings, b.Servings) }},
	"created_at": {"created_at", func(a, b *models.Recipe) int { return a.CreatedAt.Compare(b.CreatedAt) }},
	"user_id":    {"user_id", func(a, b *models.Recipe) int { return strings.Compare(a.UserID.Hex(), b.UserID.Hex()) }},
	"id":         {"_id", func(a, b *models.Recipe) int { return strings.Compare(a.ID.Hex(), b.ID.Hex()) }},
}

var sortAliases = map[string]string{
	"preparationtime": "preparation_time",
	"cookingtime":     "cooking_time",
	"difficultylevel": "difficulty_level",
	"createdat":       "created_at",
	"userid":          "user_id",
	"_id":             "id",
}

// Sort orders search results by one recipe field, ties broken by id.
type Sort struct {
	Field string
	Desc  bool
	field sortField
}

// ParseSort resolves a sort field name (snake_case or camelCase) and direction.
// An empty field sorts by title; any direction other than "desc" is ascending.
func ParseSort(by, direction string) (Sort, error) {
	name := strings.TrimSpace(by)
	if name == "" {
		name = "title"
	}
	lookup := strings.ToLower(name)
	if alias, ok := sortAliases[lookup]; ok {
		lookup = alias
	}
	f, ok := sortFields[lookup]
	if !ok {
		return Sort{}, fmt.Errorf("%w: %q", ErrUnknownSortField, by)
	}
	return Sort{
		Field: lookup,
		Desc:  strings.EqualFold(strings.TrimSpace(direction), "desc"),
		field: f,
	}, nil
}

// Doc returns the MongoDB sort document.
func (s Sort) Doc() bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	d := bson.D{{Key: s.field.key, Value: dir}}
	if s.field.key != "_id" {
		d = append(d, bson.E{Key: "_id", Value: 1})
	}
	return d
}

func (s Sort) Less(a, b *models.Recipe) bool {
	c := s.field.compare(a, b)
	if s.Desc {
		c = -c
	}
	if c != 0 {
		return c < 0
	}
	return a.ID.Hex() < b.ID.Hex()
}

// Apply sorts recipes in place.
func (s Sort) Apply(recipes []models.Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		return s.Less(&recipes[i], &recipes[j])
	})
}

// Page is a normalized page request.
type Page struct {
	Number int
	Size   int
}

// PageOf normalizes the pagination fields of criteria. Page defaults to 0 and is
// capped at MaxPageNumber; size defaults to DefaultPageSize and is capped at MaxPageSize.
func PageOf(c models.SearchCriteria) Page {
	return NewPage(c.Page, c.Size)
}

// NewPage normalizes a raw page number and size.
func NewPage(number, size int) Page {
	p := Page{Number: number, Size: size}
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Skip() int64 {
	return int64(p.Number) * int64(p.Size)
}

func (p Page) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// Slice returns the page window of an already sorted result set.
func (p Page) Slice(recipes []models.Recipe) []models.Recipe {
	start := p.Skip()
	if start >= int64(len(recipes)) {
		return []models.Recipe{}
	}
	end := start + int64(p.Size)
	if end > int64(len(recipes)) {
		end = int64(len(recipes))
	}
	return recipes[start:end]
}

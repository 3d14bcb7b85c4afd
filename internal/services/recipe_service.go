package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/search"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"github.com/Dias221467/Recipe_Manager/pkg/metrics"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetRecipeByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, id primitive.ObjectID) error
	SearchRecipes(ctx context.Context, pred *search.Predicate, sort search.Sort, page search.Page) ([]models.Recipe, int64, error)
}

// RecipeLookup resolves recipe ids for services that reference recipes.
type RecipeLookup interface {
	GetRecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Recipe, error)
}

type RecipeService struct {
	repo        RecipeStore
	ingredients CatalogLookup
}

func NewRecipeService(repo RecipeStore, ingredients CatalogLookup) *RecipeService {
	return &RecipeService{repo: repo, ingredients: ingredients}
}

// normalizeRecipe validates the editable fields and fills empty id lists. Quantified
// ingredients, when given, must exist in the ingredient catalog and replace ingredient_ids.
func (s *RecipeService) normalizeRecipe(ctx context.Context, recipe *models.Recipe) error {
	if strings.TrimSpace(recipe.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if recipe.PreparationTime < 0 || recipe.CookingTime < 0 {
		return fmt.Errorf("%w: times must not be negative", ErrInvalidInput)
	}
	if recipe.Servings <= 0 {
		return fmt.Errorf("%w: servings must be positive", ErrInvalidInput)
	}
	level, ok := models.ParseDifficulty(string(recipe.DifficultyLevel))
	if !ok {
		return fmt.Errorf("%w: difficulty_level must be EASY, MEDIUM or HARD", ErrInvalidInput)
	}
	recipe.DifficultyLevel = level

	if len(recipe.Ingredients) > 0 {
		if err := s.checkIngredients(ctx, recipe.Ingredients); err != nil {
			return err
		}
		recipe.SetIngredients(recipe.Ingredients)
	}
	if recipe.IngredientIDs == nil {
		recipe.IngredientIDs = []primitive.ObjectID{}
	}
	if recipe.MealTypeIDs == nil {
		recipe.MealTypeIDs = []primitive.ObjectID{}
	}
	if recipe.DietaryRestrictionIDs == nil {
		recipe.DietaryRestrictionIDs = []primitive.ObjectID{}
	}
	return nil
}

func (s *RecipeService) checkIngredients(ctx context.Context, ingredients []models.RecipeIngredient) error {
	ids := make([]primitive.ObjectID, 0, len(ingredients))
	seen := make(map[primitive.ObjectID]struct{}, len(ingredients))
	for _, ing := range ingredients {
		if _, dup := seen[ing.IngredientID]; dup {
			return fmt.Errorf("%w: ingredient %s listed twice", ErrInvalidInput, ing.IngredientID.Hex())
		}
		seen[ing.IngredientID] = struct{}{}
		ids = append(ids, ing.IngredientID)
	}
	_, err := resolveCatalog(ctx, s.ingredients, "ingredient", ids)
	return err
}

// ownedRecipe loads a recipe and checks that userID owns it.
func (s *RecipeService) ownedRecipe(ctx context.Context, userID, id primitive.ObjectID) (*models.Recipe, error) {
	recipe, err := s.repo.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, ErrForbidden
	}
	return recipe, nil
}

// CreateRecipe stores a recipe owned by userID.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID primitive.ObjectID, recipe *models.Recipe) (*models.Recipe, error) {
	if err := s.normalizeRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	recipe.ID = primitive.NilObjectID
	recipe.UserID = userID
	recipe.CreatedAt = time.Time{}
	recipe.UpdatedAt = time.Time{}

	created, err := s.repo.CreateRecipe(ctx, recipe)
	if err != nil {
		return nil, err
	}
	logger.Log.WithField("recipeID", created.ID.Hex()).Info("Recipe created")
	return created, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	return s.repo.GetRecipeByID(ctx, id)
}

// UpdateRecipe replaces the editable fields of one of the caller's recipes. The
// creation time is kept, so subscription matching never sees an edited recipe again.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id primitive.ObjectID, changes *models.Recipe) (*models.Recipe, error) {
	recipe, err := s.ownedRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if changes.Ingredients == nil && changes.IngredientIDs == nil {
		changes.Ingredients = recipe.Ingredients
		changes.IngredientIDs = recipe.IngredientIDs
	}
	if err := s.normalizeRecipe(ctx, changes); err != nil {
		return nil, err
	}

	changes.ID = recipe.ID
	changes.UserID = recipe.UserID
	changes.CreatedAt = recipe.CreatedAt
	if err := s.repo.UpdateRecipe(ctx, changes); err != nil {
		return nil, err
	}
	logger.Log.WithField("recipeID", id.Hex()).Info("Recipe updated")
	return changes, nil
}

// GetRecipeIngredients lists the recipe's ingredients with catalog names. Ids stored
// without a quantity are listed with an empty one.
func (s *RecipeService) GetRecipeIngredients(ctx context.Context, id primitive.ObjectID) ([]models.RecipeIngredientView, error) {
	recipe, err := s.repo.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entries := recipe.Ingredients
	if len(entries) == 0 {
		for _, ingID := range recipe.IngredientIDs {
			entries = append(entries, models.RecipeIngredient{IngredientID: ingID})
		}
	}
	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.IngredientID)
	}
	items, err := s.ingredients.GetItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name
	}

	out := make([]models.RecipeIngredientView, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.RecipeIngredientView{
			IngredientID: e.IngredientID,
			Name:         names[e.IngredientID],
			Quantity:     e.Quantity,
		})
	}
	return out, nil
}

// SetRecipeIngredients replaces the quantified ingredients of one of the caller's recipes.
func (s *RecipeService) SetRecipeIngredients(ctx context.Context, userID, id primitive.ObjectID, ingredients []models.RecipeIngredient) (*models.Recipe, error) {
	recipe, err := s.ownedRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkIngredients(ctx, ingredients); err != nil {
		return nil, err
	}
	recipe.SetIngredients(ingredients)
	if err := s.repo.UpdateRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe owned by userID.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id primitive.ObjectID) error {
	if _, err := s.ownedRecipe(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteRecipe(ctx, id)
}

// SearchRecipes compiles the criteria and returns one sorted page of distinct recipes.
func (s *RecipeService) SearchRecipes(ctx context.Context, criteria models.SearchCriteria) (*models.RecipePage, error) {
	sort, err := search.ParseSort(criteria.SortBy, criteria.SortDirection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	page := search.PageOf(criteria)
	pred := search.Compile(criteria)

	for _, d := range pred.Dropped {
		metrics.SearchDroppedFilters.WithLabelValues(d.Field).Inc()
		logger.Log.WithFields(logrus.Fields{
			"field": d.Field,
			"value": d.Value,
		}).Warn("Ignoring unparseable search filter")
	}

	recipes, total, err := s.repo.SearchRecipes(ctx, pred, sort, page)
	if err != nil {
		return nil, err
	}

	return &models.RecipePage{
		Content:        search.Dedup(recipes),
		TotalElements:  total,
		TotalPages:     page.TotalPages(total),
		Page:           page.Number,
		Size:           page.Size,
		DroppedFilters: pred.Dropped,
	}, nil
}

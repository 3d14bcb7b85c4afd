package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/search"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecipeRepository struct {
	collection *mongo.Collection
}

func NewRecipeRepository(db *mongo.Database) *RecipeRepository {
	return &RecipeRepository{
		collection: db.Collection("recipes"),
	}
}

// CreateRecipe inserts a recipe. CreatedAt is kept when already set.
func (r *RecipeRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, recipe)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert recipe")
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		recipe.ID = id
	}

	logrus.WithField("recipeID", recipe.ID.Hex()).Info("Recipe inserted successfully")
	return recipe, nil
}

func (r *RecipeRepository) GetRecipeByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe); err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", notFoundOr(err))
	}
	return &recipe, nil
}

func (r *RecipeRepository) DeleteRecipe(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithError(err).WithField("recipeID", id.Hex()).Error("Failed to delete recipe")
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete recipe: %w", ErrNotFound)
	}
	return nil
}

// UpdateRecipe overwrites the editable fields of a recipe. Owner, id and created_at
// never change.
func (r *RecipeRepository) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	recipe.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":                   recipe.Title,
		"description":             recipe.Description,
		"preparation_time":        recipe.PreparationTime,
		"cooking_time":            recipe.CookingTime,
		"difficulty_level":        recipe.DifficultyLevel,
		"servings":                recipe.Servings,
		"steps":                   recipe.Steps,
		"ingredient_ids":          recipe.IngredientIDs,
		"ingredients":             recipe.Ingredients,
		"meal_type_ids":           recipe.MealTypeIDs,
		"dietary_restriction_ids": recipe.DietaryRestrictionIDs,
		"updated_at":              recipe.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": recipe.ID}, update)
	if err != nil {
		logrus.WithError(err).WithField("recipeID", recipe.ID.Hex()).Error("Failed to update recipe")
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update recipe: %w", ErrNotFound)
	}
	return nil
}

// GetRecipesByIDs returns the recipes among ids that exist, in no particular order.
func (r *RecipeRepository) GetRecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

// GetRecipesCreatedBetween returns recipes with after < created_at <= until, oldest first.
func (r *RecipeRepository) GetRecipesCreatedBetween(ctx context.Context, after, until time.Time) ([]models.Recipe, error) {
	filter := bson.M{"created_at": bson.M{"$gt": after, "$lte": until}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, filter, opts)
}

// GetRecipesCoveringRestrictions returns recipes whose restriction set contains every
// given id. No ids matches all recipes.
func (r *RecipeRepository) GetRecipesCoveringRestrictions(ctx context.Context, restrictionIDs []primitive.ObjectID) ([]models.Recipe, error) {
	filter := bson.M{}
	if len(restrictionIDs) > 0 {
		filter["dietary_restriction_ids"] = bson.M{"$all": restrictionIDs}
	}
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, filter, opts)
}

// SearchRecipes runs a compiled predicate with sorting and pagination and returns
// the page together with the total number of matches.
func (r *RecipeRepository) SearchRecipes(ctx context.Context, pred *search.Predicate, sort search.Sort, page search.Page) ([]models.Recipe, int64, error) {
	filter := pred.Doc()

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	opts := options.Find().
		SetSort(sort.Doc()).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Size))

	recipes, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	logrus.WithFields(logrus.Fields{
		"filters": pred.Names(),
		"total":   total,
		"page":    page.Number,
	}).Debug("Recipe search executed")
	return recipes, total, nil
}

func (r *RecipeRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Recipe, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}
	defer cursor.Close(ctx)

	recipes := []models.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	return recipes, nil
}

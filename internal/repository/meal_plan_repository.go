package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MealPlanRepository struct {
	collection *mongo.Collection
}

func NewMealPlanRepository(db *mongo.Database) *MealPlanRepository {
	return &MealPlanRepository{
		collection: db.Collection("meal_plans"),
	}
}

func (r *MealPlanRepository) CreateMealPlan(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert meal plan")
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		plan.ID = id
	}
	return plan, nil
}

func (r *MealPlanRepository) GetMealPlanByID(ctx context.Context, id primitive.ObjectID) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to find meal plan: %w", notFoundOr(err))
	}
	return &plan, nil
}

func (r *MealPlanRepository) GetMealPlansByUser(ctx context.Context, userID primitive.ObjectID) ([]models.MealPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meal plans: %w", err)
	}
	defer cursor.Close(ctx)

	plans := []models.MealPlan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("failed to decode meal plans: %w", err)
	}
	return plans, nil
}

// UpdateMealPlan overwrites the editable fields of a plan.
func (r *MealPlanRepository) UpdateMealPlan(ctx context.Context, plan *models.MealPlan) error {
	plan.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":         plan.Title,
		"description":   plan.Description,
		"start_date":    plan.StartDate,
		"end_date":      plan.EndDate,
		"frequency":     plan.Frequency,
		"meals_per_day": plan.MealsPerDay,
		"recipe_ids":    plan.RecipeIDs,
		"updated_at":    plan.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, update)
	if err != nil {
		logrus.WithError(err).WithField("mealPlanID", plan.ID.Hex()).Error("Failed to update meal plan")
		return fmt.Errorf("failed to update meal plan: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update meal plan: %w", ErrNotFound)
	}
	return nil
}

func (r *MealPlanRepository) DeleteMealPlan(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete meal plan: %w", ErrNotFound)
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MealPlanStore interface {
	CreateMealPlan(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error)
	GetMealPlanByID(ctx context.Context, id primitive.ObjectID) (*models.MealPlan, error)
	GetMealPlansByUser(ctx context.Context, userID primitive.ObjectID) ([]models.MealPlan, error)
	UpdateMealPlan(ctx context.Context, plan *models.MealPlan) error
	DeleteMealPlan(ctx context.Context, id primitive.ObjectID) error
}

type MealPlanService struct {
	repo    MealPlanStore
	recipes RecipeLookup
}

func NewMealPlanService(repo MealPlanStore, recipes RecipeLookup) *MealPlanService {
	return &MealPlanService{repo: repo, recipes: recipes}
}

// checkRecipes fails with ErrInvalidInput naming the first id that matches no recipe.
func (s *MealPlanService) checkRecipes(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.recipes.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[primitive.ObjectID]struct{}, len(found))
	for _, r := range found {
		known[r.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: unknown recipe %s", ErrInvalidInput, id.Hex())
		}
	}
	return nil
}

// dedupIDs keeps the first occurrence of each id.
func dedupIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return nil
	}
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validateMealPlan(plan *models.MealPlan) error {
	if strings.TrimSpace(plan.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	freq, ok := models.ParseFrequency(string(plan.Frequency))
	if !ok {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, plan.Frequency)
	}
	plan.Frequency = freq
	if plan.MealsPerDay <= 0 {
		return fmt.Errorf("%w: meals_per_day must be positive", ErrInvalidInput)
	}
	if !plan.StartDate.IsZero() && !plan.EndDate.IsZero() && plan.EndDate.Before(plan.StartDate) {
		return fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}
	return nil
}

func (s *MealPlanService) CreateMealPlan(ctx context.Context, userID primitive.ObjectID, plan *models.MealPlan) (*models.MealPlan, error) {
	if err := validateMealPlan(plan); err != nil {
		return nil, err
	}
	plan.RecipeIDs = dedupIDs(plan.RecipeIDs)
	if err := s.checkRecipes(ctx, plan.RecipeIDs); err != nil {
		return nil, err
	}
	plan.ID = primitive.NilObjectID
	plan.UserID = userID

	created, err := s.repo.CreateMealPlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	logger.Log.WithField("mealPlanID", created.ID.Hex()).Info("Meal plan created")
	return created, nil
}

func (s *MealPlanService) GetMealPlans(ctx context.Context, userID primitive.ObjectID) ([]models.MealPlan, error) {
	return s.repo.GetMealPlansByUser(ctx, userID)
}

func (s *MealPlanService) GetMealPlan(ctx context.Context, userID, id primitive.ObjectID) (*models.MealPlan, error) {
	plan, err := s.repo.GetMealPlanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrForbidden
	}
	return plan, nil
}

// UpdateMealPlan replaces the editable fields of one of the caller's plans.
func (s *MealPlanService) UpdateMealPlan(ctx context.Context, userID, id primitive.ObjectID, changes *models.MealPlan) (*models.MealPlan, error) {
	plan, err := s.GetMealPlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateMealPlan(changes); err != nil {
		return nil, err
	}
	changes.RecipeIDs = dedupIDs(changes.RecipeIDs)
	if err := s.checkRecipes(ctx, changes.RecipeIDs); err != nil {
		return nil, err
	}

	plan.Title = changes.Title
	plan.Description = changes.Description
	plan.StartDate = changes.StartDate
	plan.EndDate = changes.EndDate
	plan.Frequency = changes.Frequency
	plan.MealsPerDay = changes.MealsPerDay
	plan.RecipeIDs = changes.RecipeIDs

	if err := s.repo.UpdateMealPlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// AddRecipe appends a recipe to one of the caller's plans. Adding a recipe already in
// the plan changes nothing.
func (s *MealPlanService) AddRecipe(ctx context.Context, userID, planID, recipeID primitive.ObjectID) (*models.MealPlan, error) {
	plan, err := s.GetMealPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRecipes(ctx, []primitive.ObjectID{recipeID}); err != nil {
		return nil, err
	}
	for _, id := range plan.RecipeIDs {
		if id == recipeID {
			return plan, nil
		}
	}

	plan.RecipeIDs = append(plan.RecipeIDs, recipeID)
	if err := s.repo.UpdateMealPlan(ctx, plan); err != nil {
		return nil, err
	}
	logger.Log.WithField("mealPlanID", planID.Hex()).Info("Recipe added to meal plan")
	return plan, nil
}

// RemoveRecipe drops a recipe from one of the caller's plans. A recipe that is not in
// the plan yields ErrNotFound.
func (s *MealPlanService) RemoveRecipe(ctx context.Context, userID, planID, recipeID primitive.ObjectID) (*models.MealPlan, error) {
	plan, err := s.GetMealPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	kept := make([]primitive.ObjectID, 0, len(plan.RecipeIDs))
	for _, id := range plan.RecipeIDs {
		if id != recipeID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(plan.RecipeIDs) {
		return nil, fmt.Errorf("recipe %s is not in the meal plan: %w", recipeID.Hex(), ErrNotFound)
	}

	plan.RecipeIDs = kept
	if err := s.repo.UpdateMealPlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *MealPlanService) DeleteMealPlan(ctx context.Context, userID, id primitive.ObjectID) error {
	if _, err := s.GetMealPlan(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteMealPlan(ctx, id)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MealPlanHandler struct {
	Service *services.MealPlanService
}

func NewMealPlanHandler(service *services.MealPlanService) *MealPlanHandler {
	return &MealPlanHandler{Service: service}
}

// POST /meal-plans
func (h *MealPlanHandler) CreateMealPlanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var plan models.MealPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateMealPlan(r.Context(), userID, &plan)
	if err != nil {
		writeServiceError(w, err, "Failed to create meal plan")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GET /meal-plans
func (h *MealPlanHandler) GetMealPlansHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	plans, err := h.Service.GetMealPlans(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get meal plans")
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// GET /meal-plans/{id}
func (h *MealPlanHandler) GetMealPlanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "meal plan")
	if !ok {
		return
	}

	plan, err := h.Service.GetMealPlan(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err, "Failed to get meal plan")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// PUT /meal-plans/{id}
func (h *MealPlanHandler) UpdateMealPlanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "meal plan")
	if !ok {
		return
	}

	var changes models.MealPlan
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	plan, err := h.Service.UpdateMealPlan(r.Context(), userID, id, &changes)
	if err != nil {
		writeServiceError(w, err, "Failed to update meal plan")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// DELETE /meal-plans/{id}
func (h *MealPlanHandler) DeleteMealPlanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "meal plan")
	if !ok {
		return
	}

	if err := h.Service.DeleteMealPlan(r.Context(), userID, id); err != nil {
		writeServiceError(w, err, "Failed to delete meal plan")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Meal plan deleted"})
}

// POST /meal-plans/{id}/recipes
func (h *MealPlanHandler) AddRecipeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "meal plan")
	if !ok {
		return
	}

	var body struct {
		RecipeID primitive.ObjectID `json:"recipe_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RecipeID.IsZero() {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	plan, err := h.Service.AddRecipe(r.Context(), userID, id, body.RecipeID)
	if err != nil {
		writeServiceError(w, err, "Failed to add recipe to meal plan")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// DELETE /meal-plans/{id}/recipes/{recipeId}
func (h *MealPlanHandler) RemoveRecipeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "meal plan")
	if !ok {
		return
	}
	recipeID, ok := pathVarID(w, r, "recipeId", "recipe")
	if !ok {
		return
	}

	plan, err := h.Service.RemoveRecipe(r.Context(), userID, id, recipeID)
	if err != nil {
		writeServiceError(w, err, "Failed to remove recipe from meal plan")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/services"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
)

type RecipeHandler struct {
	Service         *services.RecipeService
	Recommendations *services.RecommendationService
}

func NewRecipeHandler(service *services.RecipeService, recommendations *services.RecommendationService) *RecipeHandler {
	return &RecipeHandler{Service: service, Recommendations: recommendations}
}

// POST /recipes
func (h *RecipeHandler) CreateRecipeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var recipe models.Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateRecipe(r.Context(), userID, &recipe)
	if err != nil {
		writeServiceError(w, err, "Failed to create recipe")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GET /recipes/{id}
func (h *RecipeHandler) GetRecipeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipe")
	if !ok {
		return
	}

	recipe, err := h.Service.GetRecipe(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get recipe")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// PUT /recipes/{id}
func (h *RecipeHandler) UpdateRecipeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "recipe")
	if !ok {
		return
	}

	var changes models.Recipe
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := h.Service.UpdateRecipe(r.Context(), userID, id, &changes)
	if err != nil {
		writeServiceError(w, err, "Failed to update recipe")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// GET /recipes/{id}/ingredients
func (h *RecipeHandler) GetRecipeIngredientsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipe")
	if !ok {
		return
	}

	ingredients, err := h.Service.GetRecipeIngredients(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get recipe ingredients")
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

// PUT /recipes/{id}/ingredients
func (h *RecipeHandler) SetRecipeIngredientsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "recipe")
	if !ok {
		return
	}

	var ingredients []models.RecipeIngredient
	if err := json.NewDecoder(r.Body).Decode(&ingredients); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if _, err := h.Service.SetRecipeIngredients(r.Context(), userID, id, ingredients); err != nil {
		writeServiceError(w, err, "Failed to update recipe ingredients")
		return
	}
	h.GetRecipeIngredientsHandler(w, r)
}

// DELETE /recipes/{id}
func (h *RecipeHandler) DeleteRecipeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "recipe")
	if !ok {
		return
	}

	if err := h.Service.DeleteRecipe(r.Context(), userID, id); err != nil {
		writeServiceError(w, err, "Failed to delete recipe")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted"})
}

// POST /recipes/search
func (h *RecipeHandler) SearchRecipesHandler(w http.ResponseWriter, r *http.Request) {
	var criteria models.SearchCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		http.Error(w, "Invalid search criteria", http.StatusBadRequest)
		return
	}

	page, err := h.Service.SearchRecipes(r.Context(), criteria)
	if err != nil {
		writeServiceError(w, err, "Failed to search recipes")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GET /recipes/recommended
func (h *RecipeHandler) GetRecommendedRecipesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	recipes, err := h.Recommendations.GetRecommendedRecipes(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get recommended recipes")
		return
	}
	logger.Log.WithField("userID", userID.Hex()).WithField("count", len(recipes)).Debug("Served recommendations")
	writeJSON(w, http.StatusOK, recipes)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Dias221467/Recipe_Manager/internal/search"
	"github.com/Dias221467/Recipe_Manager/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShoppingListHandler struct {
	Service *services.ShoppingListService
}

func NewShoppingListHandler(service *services.ShoppingListService) *ShoppingListHandler {
	return &ShoppingListHandler{Service: service}
}

// POST /shopping-lists
func (h *ShoppingListHandler) CreateShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var body struct {
		Title     string               `json:"title"`
		RecipeIDs []primitive.ObjectID `json:"recipe_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	list, err := h.Service.CreateShoppingList(r.Context(), userID, body.Title, body.RecipeIDs)
	if err != nil {
		writeServiceError(w, err, "Failed to create shopping list")
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// GET /shopping-lists?page=0&size=10
func (h *ShoppingListHandler) GetShoppingListsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	number, err := queryInt(r, "page")
	if err != nil {
		http.Error(w, "Invalid page", http.StatusBadRequest)
		return
	}
	size, err := queryInt(r, "size")
	if err != nil {
		http.Error(w, "Invalid size", http.StatusBadRequest)
		return
	}

	page, err := h.Service.GetShoppingLists(r.Context(), userID, search.NewPage(number, size))
	if err != nil {
		writeServiceError(w, err, "Failed to get shopping lists")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GET /shopping-lists/{id}
func (h *ShoppingListHandler) GetShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "shopping list")
	if !ok {
		return
	}

	list, err := h.Service.GetShoppingList(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err, "Failed to get shopping list")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// PATCH /shopping-lists/{id}/items/{ingredientId}?purchased=true
func (h *ShoppingListHandler) SetItemPurchasedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "shopping list")
	if !ok {
		return
	}
	ingredientID, ok := pathVarID(w, r, "ingredientId", "ingredient")
	if !ok {
		return
	}
	purchased, err := strconv.ParseBool(r.URL.Query().Get("purchased"))
	if err != nil {
		http.Error(w, "purchased must be true or false", http.StatusBadRequest)
		return
	}

	list, err := h.Service.SetItemPurchased(r.Context(), userID, id, ingredientID, purchased)
	if err != nil {
		writeServiceError(w, err, "Failed to update shopping list item")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// DELETE /shopping-lists/{id}
func (h *ShoppingListHandler) DeleteShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "shopping list")
	if !ok {
		return
	}

	if err := h.Service.DeleteShoppingList(r.Context(), userID, id); err != nil {
		writeServiceError(w, err, "Failed to delete shopping list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Recipe_Manager/internal/services"
)

// CatalogHandler serves one lookup list. The same handler type backs both
// /ingredients and /meal-types.
type CatalogHandler struct {
	Service *services.CatalogService
	// Kind names the catalog in error messages, for example "ingredient".
	Kind string
}

func NewCatalogHandler(service *services.CatalogService, kind string) *CatalogHandler {
	return &CatalogHandler{Service: service, Kind: kind}
}

// POST /ingredients, /meal-types
func (h *CatalogHandler) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	item, err := h.Service.CreateItem(r.Context(), body.Name)
	if err != nil {
		writeServiceError(w, err, "Failed to create "+h.Kind)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *CatalogHandler) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to list "+h.Kind+"s")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.Kind)
	if !ok {
		return
	}

	item, err := h.Service.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get "+h.Kind)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.Kind)
	if !ok {
		return
	}

	if err := h.Service.DeleteItem(r.Context(), id); err != nil {
		writeServiceError(w, err, "Failed to delete "+h.Kind)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

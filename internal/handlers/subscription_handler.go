package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/services"
)

type SubscriptionHandler struct {
	Service *services.SubscriptionService
}

func NewSubscriptionHandler(service *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Service: service}
}

// POST /subscriptions
func (h *SubscriptionHandler) CreateSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var criteria models.SearchCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		http.Error(w, "Invalid search criteria", http.StatusBadRequest)
		return
	}

	sub, err := h.Service.CreateSubscription(r.Context(), userID, criteria)
	if err != nil {
		writeServiceError(w, err, "Failed to create subscription")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// GET /subscriptions
func (h *SubscriptionHandler) GetSubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	subs, err := h.Service.ListSubscriptions(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get subscriptions")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// DELETE /subscriptions/{id}
func (h *SubscriptionHandler) DeleteSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "subscription")
	if !ok {
		return
	}

	if err := h.Service.DeleteSubscription(r.Context(), userID, id); err != nil {
		writeServiceError(w, err, "Failed to delete subscription")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Subscription deleted"})
}

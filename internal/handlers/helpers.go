package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dias221467/Recipe_Manager/internal/services"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"github.com/Dias221467/Recipe_Manager/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID writes 401 and returns false when the request carries no valid user.
func currentUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	return userID, true
}

// pathID parses the {id} route variable, writing 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, what string) (primitive.ObjectID, bool) {
	return pathVarID(w, r, "id", what)
}

// pathVarID parses the named route variable as an object id, writing 400 on failure.
func pathVarID(w http.ResponseWriter, r *http.Request, key, what string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[key])
	if err != nil {
		http.Error(w, "Invalid "+what+" ID", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service errors to status codes; anything unknown is a 500
// with the fallback message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, services.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		logger.Log.WithError(err).Error(fallback)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dias221467/Recipe_Manager/internal/config"
	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/services"
	jwtutil "github.com/Dias221467/Recipe_Manager/pkg/jwt"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles HTTP requests related to user operations.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

func publicUser(u *models.User) *models.User {
	out := *u
	out.HashedPassword = ""
	return &out
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("RegisterUserHandler called")
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.WithError(err).Warn("Failed to decode user registration request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	createdUser, err := h.Service.RegisterUser(r.Context(), &user)
	if err != nil {
		writeServiceError(w, err, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, publicUser(createdUser))
}

// LoginUserHandler handles user login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("LoginUserHandler called")
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		writeServiceError(w, err, "Failed to authenticate")
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	h.writeTokens(w, user)
}

// RefreshTokenHandler exchanges a refresh token from the Authorization header for a
// new access and refresh token pair. Access tokens are refused with 403.
func (h *UserHandler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		http.Error(w, "Missing or invalid Authorization header", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(strings.TrimPrefix(header, "Bearer "), h.Config.JWTSecret)
	if err != nil {
		log.WithError(err).Warn("Rejected invalid refresh token")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	if !claims.IsRefresh() {
		http.Error(w, "Refresh token required", http.StatusForbidden)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	user, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		writeServiceError(w, err, "Failed to refresh token")
		return
	}
	h.writeTokens(w, user)
}

func (h *UserHandler) writeTokens(w http.ResponseWriter, user *models.User) {
	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	refresh, err := jwtutil.GenerateRefreshToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.RefreshExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate refresh token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":         token,
		"refresh_token": refresh,
		"user":          publicUser(user),
	})
}

// GetMeHandler returns the authenticated user's profile.
func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, publicUser(user))
}

// UpdateDietaryRestrictionsHandler replaces the caller's dietary restriction ids.
func (h *UserHandler) UpdateDietaryRestrictionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var body struct {
		DietaryRestrictionIDs []primitive.ObjectID `json:"dietary_restriction_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := h.Service.UpdateDietaryRestrictions(r.Context(), userID, body.DietaryRestrictionIDs)
	if err != nil {
		writeServiceError(w, err, "Failed to update dietary restrictions")
		return
	}
	writeJSON(w, http.StatusOK, publicUser(user))
}

// UpdateNotificationPreferencesHandler replaces the caller's notification preferences.
func (h *UserHandler) UpdateNotificationPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var prefs models.NotificationPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := h.Service.UpdateNotificationPreferences(r.Context(), userID, prefs)
	if err != nil {
		writeServiceError(w, err, "Failed to update notification preferences")
		return
	}
	writeJSON(w, http.StatusOK, publicUser(user))
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Recipe_Manager/internal/services"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// GET /notifications
func (h *NotificationHandler) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	notifications, err := h.Service.GetUserNotifications(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get notifications")
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// GET /notifications/unread
func (h *NotificationHandler) GetUnreadNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	notifications, err := h.Service.GetUnreadNotifications(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to get notifications")
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// GET /notifications/count
func (h *NotificationHandler) CountUnreadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	count, err := h.Service.CountUnread(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to count notifications")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

// POST /notifications
func (h *NotificationHandler) CreateNotificationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input services.NotificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	notif, err := h.Service.CreateUserNotification(r.Context(), userID, input)
	if err != nil {
		writeServiceError(w, err, "Failed to create notification")
		return
	}
	writeJSON(w, http.StatusCreated, notif)
}

// PUT /notifications/{id}/read
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	notifID, ok := pathID(w, r, "notification")
	if !ok {
		return
	}

	if err := h.Service.MarkNotificationAsRead(r.Context(), userID, notifID); err != nil {
		writeServiceError(w, err, "Failed to mark as read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// PUT /notifications/read-all
func (h *NotificationHandler) MarkAllAsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	n, err := h.Service.MarkAllAsRead(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to mark notifications as read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

// DELETE /notifications/{id}
func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	notifID, ok := pathID(w, r, "notification")
	if !ok {
		return
	}

	if err := h.Service.DeleteNotification(r.Context(), userID, notifID); err != nil {
		writeServiceError(w, err, "Failed to delete notification")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/services"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func notificationRouter(h *NotificationHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/notifications", h.GetUserNotificationsHandler).Methods("GET")
	r.HandleFunc("/notifications", h.CreateNotificationHandler).Methods("POST")
	r.HandleFunc("/notifications/unread", h.GetUnreadNotificationsHandler).Methods("GET")
	r.HandleFunc("/notifications/count", h.CountUnreadHandler).Methods("GET")
	r.HandleFunc("/notifications/read-all", h.MarkAllAsReadHandler).Methods("PUT")
	r.HandleFunc("/notifications/{id}/read", h.MarkAsReadHandler).Methods("PUT")
	r.HandleFunc("/notifications/{id}", h.DeleteNotificationHandler).Methods("DELETE")
	return r
}

func newNotificationFixture(t *testing.T) (*services.NotificationService, *mux.Router) {
	t.Helper()
	svc := services.NewNotificationService(&memNotifications{}, nil)
	return svc, notificationRouter(NewNotificationHandler(svc))
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNotificationsRequireUser(t *testing.T) {
	_, router := newNotificationFixture(t)
	rec := serve(router, httptest.NewRequest("GET", "/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMarkAsReadHandlerStatuses(t *testing.T) {
	svc, router := newNotificationFixture(t)
	owner, other := primitive.NewObjectID(), primitive.NewObjectID()
	n, err := svc.CreateNotification(context.Background(), owner, models.NotificationGeneral, "t", "m", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		user   primitive.ObjectID
		path   string
		status int
	}{
		{"other user", other, "/notifications/" + n.ID.Hex() + "/read", http.StatusForbidden},
		{"unknown id", owner, "/notifications/" + primitive.NewObjectID().Hex() + "/read", http.StatusNotFound},
		{"malformed id", owner, "/notifications/xyz/read", http.StatusBadRequest},
		{"owner", owner, "/notifications/" + n.ID.Hex() + "/read", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, asUser(httptest.NewRequest("PUT", tt.path, nil), tt.user))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestMarkAllAsReadHandlerIsIdempotent(t *testing.T) {
	svc, router := newNotificationFixture(t)
	userID := primitive.NewObjectID()
	for i := 0; i < 2; i++ {
		_, err := svc.CreateNotification(context.Background(), userID, models.NotificationGeneral, "t", "m", nil)
		require.NoError(t, err)
	}

	for _, want := range []int64{2, 0} {
		rec := serve(router, asUser(httptest.NewRequest("PUT", "/notifications/read-all", nil), userID))
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, want, body["updated"])
	}

	rec := serve(router, asUser(httptest.NewRequest("GET", "/notifications/count", nil), userID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unread":0}`, rec.Body.String())
}

func TestCreateNotificationHandler(t *testing.T) {
	_, router := newNotificationFixture(t)
	userID := primitive.NewObjectID()

	rec := serve(router, asUser(httptest.NewRequest("POST", "/notifications", strings.NewReader(`{"message":"no title"}`)), userID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, asUser(httptest.NewRequest("POST", "/notifications", strings.NewReader(`{"title":"Hello","message":"world"}`)), userID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, models.NotificationGeneral, created.Type)
	assert.False(t, created.Read)

	rec = serve(router, asUser(httptest.NewRequest("GET", "/notifications/unread", nil), userID))
	require.Equal(t, http.StatusOK, rec.Code)
	var unread []models.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&unread))
	assert.Len(t, unread, 1)
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	jwtutil "github.com/Dias221467/Recipe_Manager/pkg/jwt"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func dialHub(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications?token=" + token
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestNotificationHubRejectsBadToken(t *testing.T) {
	hub := NewNotificationHub(testSecret)
	srv := httptest.NewServer(http.HandlerFunc(hub.NotificationWebSocketHandler))
	defer srv.Close()

	_, resp, err := dialHub(t, srv, "garbage")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNotificationHubPublish(t *testing.T) {
	hub := NewNotificationHub(testSecret)
	srv := httptest.NewServer(http.HandlerFunc(hub.NotificationWebSocketHandler))
	defer srv.Close()

	userID := primitive.NewObjectID()
	token, err := jwtutil.GenerateToken(userID.Hex(), "cook@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	conn, _, err := dialHub(t, srv, token)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connections(userID) == 1 }, time.Second, 10*time.Millisecond)

	// Another user's notification must not arrive on this socket.
	hub.Publish(primitive.NewObjectID(), &models.Notification{Title: "not yours"})
	hub.Publish(userID, &models.Notification{ID: primitive.NewObjectID(), UserID: userID, Title: "New recipe match"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame WSNotification
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "notification", frame.Type)
	require.NotNil(t, frame.Notification)
	assert.Equal(t, "New recipe match", frame.Notification.Title)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Connections(userID) == 0 }, time.Second, 10*time.Millisecond)
}

func TestNotificationHubRejectsRefreshToken(t *testing.T) {
	hub := NewNotificationHub(testSecret)
	srv := httptest.NewServer(http.HandlerFunc(hub.NotificationWebSocketHandler))
	defer srv.Close()

	token, err := jwtutil.GenerateRefreshToken(primitive.NewObjectID().Hex(), "cook@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	_, resp, err := dialHub(t, srv, token)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNotificationHubSlowClientDoesNotBlockHub(t *testing.T) {
	hub := NewNotificationHub(testSecret)
	srv := httptest.NewServer(http.HandlerFunc(hub.NotificationWebSocketHandler))
	defer srv.Close()

	slowUser, fastUser := primitive.NewObjectID(), primitive.NewObjectID()
	slowToken, err := jwtutil.GenerateToken(slowUser.Hex(), "slow@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)
	fastToken, err := jwtutil.GenerateToken(fastUser.Hex(), "fast@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	// The slow client never reads, so a large frame fills the socket buffers.
	slow, _, err := dialHub(t, srv, slowToken)
	require.NoError(t, err)
	defer slow.Close()
	fast, _, err := dialHub(t, srv, fastToken)
	require.NoError(t, err)
	defer fast.Close()

	require.Eventually(t, func() bool {
		return hub.Connections(slowUser) == 1 && hub.Connections(fastUser) == 1
	}, time.Second, 10*time.Millisecond)

	stalled := make(chan struct{})
	go func() {
		defer close(stalled)
		hub.Publish(slowUser, &models.Notification{Title: strings.Repeat("x", 64<<20)})
	}()

	// Give the slow write time to block on the full buffer.
	time.Sleep(200 * time.Millisecond)

	delivered := make(chan struct{})
	go func() {
		defer close(delivered)
		hub.Publish(fastUser, &models.Notification{Title: "fresh"})
	}()
	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("publish to another user waited on the stalled write")
	}

	require.NoError(t, fast.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame WSNotification
	require.NoError(t, fast.ReadJSON(&frame))
	assert.Equal(t, "fresh", frame.Notification.Title)

	// The stalled write times out and the slow client is dropped.
	select {
	case <-stalled:
	case <-time.After(2 * wsWriteTimeout):
		t.Fatal("stalled publish never returned")
	}
	assert.Equal(t, 0, hub.Connections(slowUser))
}

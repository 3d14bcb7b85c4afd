package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	jwtutil "github.com/Dias221467/Recipe_Manager/pkg/jwt"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const wsWriteTimeout = 5 * time.Second

var errRefreshToken = errors.New("refresh token not accepted")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSNotification is the frame pushed to clients for each new notification.
type WSNotification struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification"`
}

// wsClient serializes writes to one socket; gorilla connections allow a single writer.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(v)
}

// NotificationHub keeps the open websocket connections per user and pushes new
// notifications to them.
type NotificationHub struct {
	JWTSecret string

	mu      sync.Mutex
	clients map[primitive.ObjectID]map[*wsClient]struct{}
}

func NewNotificationHub(jwtSecret string) *NotificationHub {
	return &NotificationHub{
		JWTSecret: jwtSecret,
		clients:   make(map[primitive.ObjectID]map[*wsClient]struct{}),
	}
}

// Publish sends the notification to every open connection of the user. Connections
// that fail to accept the write are dropped. The hub lock is not held while writing,
// so one slow client does not stall registration or other users.
func (h *NotificationHub) Publish(userID primitive.ObjectID, notif *models.Notification) {
	h.mu.Lock()
	targets := make([]*wsClient, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	frame := WSNotification{Type: "notification", Notification: notif}
	var failed []*wsClient
	for _, c := range targets {
		if err := c.writeJSON(frame); err != nil {
			logger.Log.WithError(err).WithField("userID", userID.Hex()).Warn("Dropping websocket client")
			failed = append(failed, c)
		}
	}
	if len(failed) == 0 {
		return
	}

	h.mu.Lock()
	for _, c := range failed {
		h.removeLocked(userID, c)
	}
	h.mu.Unlock()
	for _, c := range failed {
		c.conn.Close()
	}
}

// Connections returns how many sockets the user has open.
func (h *NotificationHub) Connections(userID primitive.ObjectID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// GET /ws/notifications?token=...
func (h *NotificationHub) NotificationWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err == nil && claims.IsRefresh() {
		err = errRefreshToken
	}
	if err != nil {
		logger.Log.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn}
	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*wsClient]struct{})
	}
	h.clients[userID][client] = struct{}{}
	h.mu.Unlock()
	logger.Log.WithField("userID", userID.Hex()).Info("WebSocket connected")

	defer func() {
		h.mu.Lock()
		h.removeLocked(userID, client)
		h.mu.Unlock()
		conn.Close()
		logger.Log.WithField("userID", userID.Hex()).Info("WebSocket disconnected")
	}()

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *NotificationHub) removeLocked(userID primitive.ObjectID, c *wsClient) {
	conns := h.clients[userID]
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
}

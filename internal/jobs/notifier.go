package jobs

import (
	"context"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier creates one unread notification for a user.
type Notifier interface {
	CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) (*models.Notification, error)
}

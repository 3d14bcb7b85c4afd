package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// CreateNotification inserts a new notification. CreatedAt is kept when already set.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notif *models.Notification) error {
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, notif)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert notification")
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		notif.ID = id
	}
	return nil
}

// GetNotificationByID returns one notification regardless of owner.
func (r *NotificationRepository) GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notif models.Notification
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notif); err != nil {
		return nil, fmt.Errorf("failed to fetch notification: %w", notFoundOr(err))
	}
	return &notif, nil
}

// GetUserNotifications returns all notifications for a user, newest first
func (r *NotificationRepository) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// GetUnreadNotifications returns the user's unread notifications, newest first
func (r *NotificationRepository) GetUnreadNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return r.find(ctx, bson.M{"user_id": userID, "read": false})
}

func (r *NotificationRepository) find(ctx context.Context, filter bson.M) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

// MarkAsRead sets notification's Read to true
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to mark notification as read: %w", ErrNotFound)
	}
	return nil
}

// MarkAllAsRead flips every unread notification of the user and returns how many changed.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return res.ModifiedCount, nil
}

// DeleteNotification deletes a notification
func (r *NotificationRepository) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete notification: %w", ErrNotFound)
	}
	return nil
}

// GetLatestNotificationByTarget returns the newest notification of the user that
// references targetID, or ErrNotFound.
func (r *NotificationRepository) GetLatestNotificationByTarget(ctx context.Context, userID, targetID primitive.ObjectID) (*models.Notification, error) {
	filter := bson.M{
		"user_id":   userID,
		"target_id": targetID,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var notif models.Notification
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&notif); err != nil {
		return nil, notFoundOr(err)
	}
	return &notif, nil
}

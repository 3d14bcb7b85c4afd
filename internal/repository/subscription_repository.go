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

type SubscriptionRepository struct {
	collection *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{
		collection: db.Collection("subscriptions"),
	}
}

func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert subscription")
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		sub.ID = id
	}
	return sub, nil
}

func (r *SubscriptionRepository) GetSubscriptionByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", notFoundOr(err))
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetSubscriptionsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Subscription, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *SubscriptionRepository) GetAllSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	return r.find(ctx, bson.M{})
}

func (r *SubscriptionRepository) find(ctx context.Context, filter bson.M) ([]models.Subscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	subs := []models.Subscription{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return subs, nil
}

func (r *SubscriptionRepository) DeleteSubscription(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete subscription: %w", ErrNotFound)
	}
	return nil
}

// AdvanceLastNotified moves the watermark forward to t. It never moves it back:
// the update only applies when last_notified is unset or earlier than t.
func (r *SubscriptionRepository) AdvanceLastNotified(ctx context.Context, id primitive.ObjectID, t time.Time) (bool, error) {
	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"last_notified": nil},
			bson.M{"last_notified": bson.M{"$lt": t}},
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"last_notified": t}})
	if err != nil {
		return false, fmt.Errorf("failed to update subscription watermark: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

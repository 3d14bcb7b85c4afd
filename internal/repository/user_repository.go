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
)

// UserRepository handles database operations related to users.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"email": email,
			"error": err,
		}).Debug("Failed to find user by email")
		return nil, fmt.Errorf("failed to find user by email: %w", notFoundOr(err))
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Warn("Failed to find user by ID")
		return nil, fmt.Errorf("failed to find user by id: %w", notFoundOr(err))
	}
	return &user, nil
}

func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return r.findUsers(ctx, bson.M{})
}

// GetUsersWithRemindersEnabled returns users who opted into meal plan reminders.
func (r *UserRepository) GetUsersWithRemindersEnabled(ctx context.Context) ([]*models.User, error) {
	return r.findUsers(ctx, bson.M{
		"notification_preferences.enabled":             true,
		"notification_preferences.meal_plan_reminders": true,
	})
}

func (r *UserRepository) findUsers(ctx context.Context, filter bson.M) ([]*models.User, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, &user)
	}
	return users, cursor.Err()
}

// UpdateDietaryRestrictions replaces the user's dietary restriction set.
func (r *UserRepository) UpdateDietaryRestrictions(ctx context.Context, id primitive.ObjectID, restrictionIDs []primitive.ObjectID) error {
	if restrictionIDs == nil {
		restrictionIDs = []primitive.ObjectID{}
	}
	return r.updateFields(ctx, id, bson.M{"dietary_restriction_ids": restrictionIDs})
}

func (r *UserRepository) UpdateNotificationPreferences(ctx context.Context, id primitive.ObjectID, prefs models.NotificationPreferences) error {
	return r.updateFields(ctx, id, bson.M{"notification_preferences": prefs})
}

func (r *UserRepository) updateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update user: %w", ErrNotFound)
	}

	logrus.WithField("userID", id.Hex()).Info("User updated successfully")
	return nil
}

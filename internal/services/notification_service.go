package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"github.com/Dias221467/Recipe_Manager/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	GetUnreadNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteNotification(ctx context.Context, id primitive.ObjectID) error
}

// Publisher pushes freshly created notifications to connected clients.
type Publisher interface {
	Publish(userID primitive.ObjectID, notif *models.Notification)
}

type NotificationService struct {
	repo      NotificationStore
	plans     MealPlanStore
	publisher Publisher
}

func NewNotificationService(repo NotificationStore, plans MealPlanStore) *NotificationService {
	return &NotificationService{
		repo:  repo,
		plans: plans,
	}
}

// SetPublisher enables live delivery of new notifications.
func (s *NotificationService) SetPublisher(p Publisher) {
	s.publisher = p
}

// CreateNotification stores a new unread notification for a user and pushes it to live clients
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) (*models.Notification, error) {
	notif := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Read:     false,
		TargetID: targetID,
	}
	if err := s.repo.CreateNotification(ctx, notif); err != nil {
		return nil, err
	}

	metrics.NotificationsCreated.WithLabelValues(notifType).Inc()
	logger.Log.WithField("userID", userID.Hex()).WithField("type", notifType).Info("Notification created")

	if s.publisher != nil {
		s.publisher.Publish(userID, notif)
	}
	return notif, nil
}

// NotificationInput is the body of a directly created notification.
type NotificationInput struct {
	Title      string              `json:"title"`
	Message    string              `json:"message"`
	MealPlanID *primitive.ObjectID `json:"meal_plan_id,omitempty"`
}

// CreateUserNotification creates a notification on the caller's own behalf. A
// referenced meal plan must belong to the caller.
func (s *NotificationService) CreateUserNotification(ctx context.Context, userID primitive.ObjectID, in NotificationInput) (*models.Notification, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	notifType := models.NotificationGeneral
	if in.MealPlanID != nil {
		plan, err := s.plans.GetMealPlanByID(ctx, *in.MealPlanID)
		if err != nil {
			return nil, err
		}
		if plan.UserID != userID {
			return nil, ErrForbidden
		}
		notifType = models.NotificationMealPlanReminder
	}

	return s.CreateNotification(ctx, userID, notifType, in.Title, in.Message, in.MealPlanID)
}

// GetUserNotifications returns all notifications for a user
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

func (s *NotificationService) GetUnreadNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUnreadNotifications(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkNotificationAsRead flips the read flag of one of the caller's notifications.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, userID, notifID primitive.ObjectID) error {
	if _, err := s.ownedNotification(ctx, userID, notifID); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, notifID)
}

// MarkAllAsRead is idempotent; it returns how many notifications changed.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	logger.Log.WithField("userID", userID.Hex()).WithField("count", n).Info("Notifications marked as read")
	return n, nil
}

// DeleteNotification deletes one of the caller's notifications
func (s *NotificationService) DeleteNotification(ctx context.Context, userID, notifID primitive.ObjectID) error {
	if _, err := s.ownedNotification(ctx, userID, notifID); err != nil {
		return err
	}
	return s.repo.DeleteNotification(ctx, notifID)
}

func (s *NotificationService) ownedNotification(ctx context.Context, userID, notifID primitive.ObjectID) (*models.Notification, error) {
	notif, err := s.repo.GetNotificationByID(ctx, notifID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if notif.UserID != userID {
		logger.Log.WithField("userID", userID.Hex()).WithField("notificationID", notifID.Hex()).Warn("Notification access denied")
		return nil, ErrForbidden
	}
	return notif, nil
}

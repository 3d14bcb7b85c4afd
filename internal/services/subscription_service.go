package services

import (
	"context"
	"fmt"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/search"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, sub *models.Subscription) (*models.Subscription, error)
	GetSubscriptionByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error)
	GetSubscriptionsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Subscription, error)
	DeleteSubscription(ctx context.Context, id primitive.ObjectID) error
}

type SubscriptionService struct {
	repo SubscriptionStore
}

func NewSubscriptionService(repo SubscriptionStore) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

// CreateSubscription saves the criteria as a search the matcher re-runs against new recipes.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, userID primitive.ObjectID, criteria models.SearchCriteria) (*models.Subscription, error) {
	if _, err := search.ParseSort(criteria.SortBy, criteria.SortDirection); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	blob, err := search.EncodeCriteria(criteria)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.CreateSubscription(ctx, &models.Subscription{
		UserID:   userID,
		Criteria: blob,
	})
	if err != nil {
		return nil, err
	}
	sub.SearchCriteria = &criteria

	logger.Log.WithField("userID", userID.Hex()).WithField("subscriptionID", sub.ID.Hex()).Info("Subscription created")
	return sub, nil
}

// ListSubscriptions returns the user's subscriptions with their criteria decoded.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID primitive.ObjectID) ([]models.Subscription, error) {
	subs, err := s.repo.GetSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		c, err := search.DecodeCriteria(subs[i].Criteria)
		if err != nil {
			logger.Log.WithError(err).WithField("subscriptionID", subs[i].ID.Hex()).Warn("Stored subscription criteria unreadable")
			continue
		}
		subs[i].SearchCriteria = &c
	}
	return subs, nil
}

// DeleteSubscription removes one of the caller's subscriptions.
func (s *SubscriptionService) DeleteSubscription(ctx context.Context, userID, id primitive.ObjectID) error {
	sub, err := s.repo.GetSubscriptionByID(ctx, id)
	if err != nil {
		return err
	}
	if sub.UserID != userID {
		return ErrForbidden
	}
	if err := s.repo.DeleteSubscription(ctx, id); err != nil {
		return err
	}
	logger.Log.WithField("subscriptionID", id.Hex()).Info("Subscription deleted")
	return nil
}

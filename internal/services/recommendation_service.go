package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/cache"
	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/search"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RecommendationUserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

// CoveringRecipeFinder finds recipes that carry every one of the given restriction ids.
type CoveringRecipeFinder interface {
	GetRecipesCoveringRestrictions(ctx context.Context, restrictionIDs []primitive.ObjectID) ([]models.Recipe, error)
}

// RecommendationService serves recipes compatible with a user's dietary restrictions
// through a time-windowed cache.
type RecommendationService struct {
	users   RecommendationUserStore
	recipes CoveringRecipeFinder
	cache   *cache.RecommendationCache
}

// NewRecommendationService wires the cache. A nil now uses the wall clock.
func NewRecommendationService(users RecommendationUserStore, recipes CoveringRecipeFinder, window time.Duration, now func() time.Time) *RecommendationService {
	s := &RecommendationService{users: users, recipes: recipes}
	s.cache = cache.NewRecommendationCache(window, now, s.compute)
	return s
}

func (s *RecommendationService) GetRecommendedRecipes(ctx context.Context, userID primitive.ObjectID) ([]models.Recipe, error) {
	return s.cache.Get(ctx, userID)
}

// RefreshAll recomputes every user's entry. A failure for one user is logged and
// the rest continue.
func (s *RecommendationService) RefreshAll(ctx context.Context) error {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	refreshed := 0
	for _, user := range users {
		if _, err := s.cache.Refresh(ctx, user.ID); err != nil {
			logrus.WithError(err).Warnf("Failed to refresh recommendations for user %s", user.ID.Hex())
			continue
		}
		refreshed++
	}

	logger.Log.WithFields(logrus.Fields{
		"users":     len(users),
		"refreshed": refreshed,
	}).Info("Recommendation refresh completed")
	return nil
}

func (s *RecommendationService) compute(ctx context.Context, userID primitive.ObjectID) ([]models.Recipe, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipes, err := s.recipes.GetRecipesCoveringRestrictions(ctx, user.DietaryRestrictionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommended recipes: %w", err)
	}

	recipes = search.Dedup(recipes)
	byTitle, _ := search.ParseSort("title", "asc")
	byTitle.Apply(recipes)
	return recipes, nil
}

// Package cache holds the process-local recommendation cache. Entries live in
// memory only, so every replica computes its own and a restart starts cold.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultWindow is how long a computed recommendation list stays fresh.
const DefaultWindow = 24 * time.Hour

// Loader computes the recommendation list for one user.
type Loader func(ctx context.Context, userID primitive.ObjectID) ([]models.Recipe, error)

type entry struct {
	recipes    []models.Recipe
	computedAt time.Time
}

// RecommendationCache keeps one immutable entry per user. Writers build a complete
// list before swapping it in, so readers never see a partial entry. Entries are
// never evicted.
type RecommendationCache struct {
	window time.Duration
	now    func() time.Time
	load   Loader

	mu      sync.RWMutex
	entries map[primitive.ObjectID]*entry
}

// NewRecommendationCache builds a cache. A nil now uses time.Now.
func NewRecommendationCache(window time.Duration, now func() time.Time, load Loader) *RecommendationCache {
	if window <= 0 {
		window = DefaultWindow
	}
	if now == nil {
		now = time.Now
	}
	return &RecommendationCache{
		window:  window,
		now:     now,
		load:    load,
		entries: make(map[primitive.ObjectID]*entry),
	}
}

// Get returns the cached list when it is younger than the window and recomputes
// it otherwise. A failed computation leaves any previous entry untouched.
func (c *RecommendationCache) Get(ctx context.Context, userID primitive.ObjectID) ([]models.Recipe, error) {
	c.mu.RLock()
	e, ok := c.entries[userID]
	c.mu.RUnlock()

	if ok && c.now().Sub(e.computedAt) < c.window {
		metrics.RecommendationCacheRequests.WithLabelValues("hit").Inc()
		return copyRecipes(e.recipes), nil
	}

	metrics.RecommendationCacheRequests.WithLabelValues("miss").Inc()
	return c.Refresh(ctx, userID)
}

// Refresh recomputes the user's entry regardless of its age.
func (c *RecommendationCache) Refresh(ctx context.Context, userID primitive.ObjectID) ([]models.Recipe, error) {
	recipes, err := c.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	e := &entry{recipes: recipes, computedAt: c.now()}
	c.mu.Lock()
	c.entries[userID] = e
	c.mu.Unlock()

	return copyRecipes(recipes), nil
}

// ComputedAt reports when the user's entry was last computed.
func (c *RecommendationCache) ComputedAt(userID primitive.ObjectID) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[userID]
	if !ok {
		return time.Time{}, false
	}
	return e.computedAt, true
}

func (c *RecommendationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func copyRecipes(in []models.Recipe) []models.Recipe {
	out := make([]models.Recipe, len(in))
	copy(out, in)
	return out
}

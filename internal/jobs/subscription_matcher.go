package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/search"
	"github.com/Dias221467/Recipe_Manager/pkg/metrics"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionSource interface {
	GetAllSubscriptions(ctx context.Context) ([]models.Subscription, error)
	AdvanceLastNotified(ctx context.Context, id primitive.ObjectID, t time.Time) (bool, error)
}

type NewRecipeSource interface {
	GetRecipesCreatedBetween(ctx context.Context, after, until time.Time) ([]models.Recipe, error)
}

// SubscriptionMatcher re-runs saved searches against recipes created since each
// subscription was last notified.
type SubscriptionMatcher struct {
	Subscriptions SubscriptionSource
	Recipes       NewRecipeSource
	Notifier      Notifier
}

func NewSubscriptionMatcher(subs SubscriptionSource, recipes NewRecipeSource, notifier Notifier) *SubscriptionMatcher {
	return &SubscriptionMatcher{
		Subscriptions: subs,
		Recipes:       recipes,
		Notifier:      notifier,
	}
}

// RunOnce evaluates every subscription once. A failing subscription is logged and
// skipped without touching its watermark.
func (m *SubscriptionMatcher) RunOnce(ctx context.Context, now time.Time) error {
	subs, err := m.Subscriptions.GetAllSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch subscriptions: %w", err)
	}

	notified := 0
	for i := range subs {
		sub := &subs[i]
		ok, reason, err := m.match(ctx, sub, now)
		if err != nil {
			metrics.SubscriptionsSkipped.WithLabelValues(reason).Inc()
			logrus.WithError(err).WithField("reason", reason).Warnf("Skipping subscription %s", sub.ID.Hex())
			continue
		}
		if ok {
			notified++
		}
	}

	logrus.WithFields(logrus.Fields{
		"subscriptions": len(subs),
		"notified":      notified,
	}).Info("Subscription match completed")
	return nil
}

// match reports whether a notification was sent. On error it also returns a short
// reason label.
func (m *SubscriptionMatcher) match(ctx context.Context, sub *models.Subscription, now time.Time) (bool, string, error) {
	criteria, err := search.DecodeCriteria(sub.Criteria)
	if err != nil {
		return false, "decode", err
	}

	watermark := sub.Watermark()
	if !now.After(watermark) {
		return false, "", nil
	}

	fresh, err := m.Recipes.GetRecipesCreatedBetween(ctx, watermark, now)
	if err != nil {
		return false, "fetch", err
	}

	// Delta is bounded to (watermark, now] even if the source returns more.
	delta := fresh[:0:0]
	for _, r := range fresh {
		if r.CreatedAt.After(watermark) && !r.CreatedAt.After(now) {
			delta = append(delta, r)
		}
	}

	matches := search.Compile(criteria).Apply(delta)
	if len(matches) == 0 {
		return false, "", nil
	}

	title, message, target := matchNotification(matches)
	if _, err := m.Notifier.CreateNotification(ctx, sub.UserID, models.NotificationSearchMatch, title, message, target); err != nil {
		return false, "notify", err
	}

	advanceTo := now
	if advanceTo.Before(sub.CreatedAt) {
		advanceTo = sub.CreatedAt
	}
	if _, err := m.Subscriptions.AdvanceLastNotified(ctx, sub.ID, advanceTo); err != nil {
		return false, "watermark", err
	}
	return true, "", nil
}

func matchNotification(matches []models.Recipe) (string, string, *primitive.ObjectID) {
	if len(matches) == 1 {
		id := matches[0].ID
		return "New recipe match", "New recipe found: " + matches[0].Title, &id
	}
	return "New recipe matches", fmt.Sprintf("%d new recipes match your search criteria", len(matches)), nil
}

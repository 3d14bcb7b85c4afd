package jobs

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSubscriptions struct {
	mu       sync.Mutex
	subs     []models.Subscription
	listErr  error
	failMove map[primitive.ObjectID]bool
}

func (f *fakeSubscriptions) GetAllSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Subscription, len(f.subs))
	copy(out, f.subs)
	return out, nil
}

func (f *fakeSubscriptions) AdvanceLastNotified(ctx context.Context, id primitive.ObjectID, t time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMove[id] {
		return false, errors.New("write failed")
	}
	for i := range f.subs {
		if f.subs[i].ID != id {
			continue
		}
		if f.subs[i].LastNotified != nil && !f.subs[i].LastNotified.Before(t) {
			return false, nil
		}
		tt := t
		f.subs[i].LastNotified = &tt
		return true, nil
	}
	return false, nil
}

func (f *fakeSubscriptions) get(id primitive.ObjectID) models.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.ID == id {
			return s
		}
	}
	return models.Subscription{}
}

type fakeRecipes struct {
	recipes []models.Recipe
	err     error
	calls   int
}

func (f *fakeRecipes) GetRecipesCreatedBetween(ctx context.Context, after, until time.Time) ([]models.Recipe, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Recipe
	for _, r := range f.recipes {
		if r.CreatedAt.After(after) && !r.CreatedAt.After(until) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []models.Notification
	fails map[primitive.ObjectID]bool
	now   time.Time
}

func (f *fakeNotifier) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails[userID] {
		return nil, errors.New("sink unavailable")
	}
	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		TargetID:  targetID,
		CreatedAt: f.now,
	}
	f.sent = append(f.sent, n)
	return &n, nil
}

func (f *fakeNotifier) forUser(userID primitive.ObjectID) []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeUsers struct {
	users []*models.User
}

func (f *fakeUsers) GetUsersWithRemindersEnabled(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		if u.NotificationPreferences.RemindersEnabled() {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakePlans struct {
	plans   []models.MealPlan
	failFor map[primitive.ObjectID]bool
}

func (f *fakePlans) GetMealPlansByUser(ctx context.Context, userID primitive.ObjectID) ([]models.MealPlan, error) {
	if f.failFor[userID] {
		return nil, errors.New("plans unavailable")
	}
	var out []models.MealPlan
	for _, p := range f.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeHistory reads from both seeded notifications and whatever the notifier created.
type fakeHistory struct {
	seeded   []models.Notification
	notifier *fakeNotifier
}

func (f *fakeHistory) GetLatestNotificationByTarget(ctx context.Context, userID, targetID primitive.ObjectID) (*models.Notification, error) {
	all := append([]models.Notification{}, f.seeded...)
	if f.notifier != nil {
		all = append(all, f.notifier.forUser(userID)...)
	}
	var latest *models.Notification
	for i := range all {
		n := all[i]
		if n.UserID != userID || n.TargetID == nil || *n.TargetID != targetID {
			continue
		}
		if latest == nil || n.CreatedAt.After(latest.CreatedAt) {
			latest = &n
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendEmail(to, subject, body string) error {
	f.sent = append(f.sent, to)
	return f.err
}

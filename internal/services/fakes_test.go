package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/repository"
	"github.com/Dias221467/Recipe_Manager/internal/search"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory stand-in for every repository the services use.
type memStore struct {
	mu            sync.Mutex
	users         map[primitive.ObjectID]*models.User
	recipes       []models.Recipe
	notifications []models.Notification
	plans         map[primitive.ObjectID]*models.MealPlan
	subs          map[primitive.ObjectID]*models.Subscription
	lists         map[primitive.ObjectID]*models.ShoppingList

	coveringCalls int
	coveringErr   error
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[primitive.ObjectID]*models.User),
		plans: make(map[primitive.ObjectID]*models.MealPlan),
		subs:  make(map[primitive.ObjectID]*models.Subscription),
		lists: make(map[primitive.ObjectID]*models.ShoppingList),
	}
}

// users

func (m *memStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = primitive.NewObjectID()
	cp := *user
	m.users[user.ID] = &cp
	return user, nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memStore) UpdateDietaryRestrictions(ctx context.Context, id primitive.ObjectID, ids []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.DietaryRestrictionIDs = ids
	return nil
}

func (m *memStore) UpdateNotificationPreferences(ctx context.Context, id primitive.ObjectID, prefs models.NotificationPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.NotificationPreferences = prefs
	return nil
}

// recipes

func (m *memStore) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe.ID = primitive.NewObjectID()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now()
	}
	m.recipes = append(m.recipes, *recipe)
	return recipe, nil
}

func (m *memStore) GetRecipeByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recipes {
		if m.recipes[i].ID == id {
			cp := m.recipes[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recipes {
		if m.recipes[i].ID == recipe.ID {
			recipe.UpdatedAt = time.Now()
			m.recipes[i] = *recipe
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) GetRecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []models.Recipe{}
	for _, r := range m.recipes {
		if want[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) DeleteRecipe(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recipes {
		if m.recipes[i].ID == id {
			m.recipes = append(m.recipes[:i], m.recipes[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) SearchRecipes(ctx context.Context, pred *search.Predicate, sort search.Sort, page search.Page) ([]models.Recipe, int64, error) {
	m.mu.Lock()
	all := make([]models.Recipe, len(m.recipes))
	copy(all, m.recipes)
	m.mu.Unlock()

	matched := pred.Apply(all)
	sort.Apply(matched)
	return page.Slice(matched), int64(len(matched)), nil
}

func (m *memStore) GetRecipesCoveringRestrictions(ctx context.Context, ids []primitive.ObjectID) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coveringCalls++
	if m.coveringErr != nil {
		return nil, m.coveringErr
	}
	var out []models.Recipe
	for _, r := range m.recipes {
		if r.CoversRestrictions(ids) {
			out = append(out, r)
		}
	}
	return out, nil
}

// notifications

func (m *memStore) CreateNotification(ctx context.Context, notif *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notif.ID = primitive.NewObjectID()
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}
	m.notifications = append(m.notifications, *notif)
	return nil
}

func (m *memStore) GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			cp := m.notifications[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) filterNotifications(keep func(*models.Notification) bool) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for i := range m.notifications {
		if keep(&m.notifications[i]) {
			out = append(out, m.notifications[i])
		}
	}
	return out
}

func (m *memStore) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return m.filterNotifications(func(n *models.Notification) bool { return n.UserID == userID }), nil
}

func (m *memStore) GetUnreadNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return m.filterNotifications(func(n *models.Notification) bool { return n.UserID == userID && !n.Read }), nil
}

func (m *memStore) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	unread, _ := m.GetUnreadNotifications(ctx, userID)
	return int64(len(unread)), nil
}

func (m *memStore) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.notifications {
		if m.notifications[i].UserID == userID && !m.notifications[i].Read {
			m.notifications[i].Read = true
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// meal plans

func (m *memStore) CreateMealPlan(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	cp := *plan
	m.plans[plan.ID] = &cp
	return plan, nil
}

func (m *memStore) GetMealPlanByID(ctx context.Context, id primitive.ObjectID) (*models.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetMealPlansByUser(ctx context.Context, userID primitive.ObjectID) ([]models.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.MealPlan
	for _, p := range m.plans {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) UpdateMealPlan(ctx context.Context, plan *models.MealPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *plan
	m.plans[plan.ID] = &cp
	return nil
}

func (m *memStore) DeleteMealPlan(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.plans, id)
	return nil
}

// subscriptions

func (m *memStore) CreateSubscription(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub.ID = primitive.NewObjectID()
	sub.CreatedAt = time.Now()
	cp := *sub
	m.subs[sub.ID] = &cp
	return sub, nil
}

func (m *memStore) GetSubscriptionByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) GetSubscriptionsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Subscription
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memStore) DeleteSubscription(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.subs, id)
	return nil
}

// shopping lists

func (m *memStore) CreateShoppingList(ctx context.Context, list *models.ShoppingList) (*models.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list.ID = primitive.NewObjectID()
	list.CreatedAt = time.Now()
	cp := *list
	cp.Items = append([]models.ShoppingListItem(nil), list.Items...)
	m.lists[list.ID] = &cp
	return list, nil
}

func (m *memStore) GetShoppingListByID(ctx context.Context, id primitive.ObjectID) (*models.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	cp.Items = append([]models.ShoppingListItem(nil), l.Items...)
	return &cp, nil
}

func (m *memStore) GetShoppingListsByUser(ctx context.Context, userID primitive.ObjectID, page search.Page) ([]models.ShoppingList, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.ShoppingList
	for _, l := range m.lists {
		if l.UserID == userID {
			all = append(all, *l)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.Hex() > all[j].ID.Hex()
	})

	start := int(page.Skip())
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (m *memStore) SetItemPurchased(ctx context.Context, listID, ingredientID primitive.ObjectID, purchased bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[listID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range l.Items {
		if l.Items[i].IngredientID == ingredientID {
			l.Items[i].Purchased = purchased
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) DeleteShoppingList(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.lists, id)
	return nil
}

// memCatalog is an in-memory ingredient or meal type catalog.
type memCatalog struct {
	mu    sync.Mutex
	items []models.CatalogItem
}

func newMemCatalog(names ...string) *memCatalog {
	c := &memCatalog{}
	for _, n := range names {
		c.items = append(c.items, models.CatalogItem{ID: primitive.NewObjectID(), Name: n})
	}
	return c
}

// id returns the id of the named item.
func (c *memCatalog) id(name string) primitive.ObjectID {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.Name == name {
			return it.ID
		}
	}
	return primitive.NilObjectID
}

func (c *memCatalog) CreateItem(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.Name == item.Name {
			return nil, repository.ErrDuplicate
		}
	}
	item.ID = primitive.NewObjectID()
	c.items = append(c.items, *item)
	return item, nil
}

func (c *memCatalog) GetItemByID(ctx context.Context, id primitive.ObjectID) (*models.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (c *memCatalog) GetItemByName(ctx context.Context, name string) (*models.CatalogItem, error) {
	if id := c.id(name); !id.IsZero() {
		return c.GetItemByID(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (c *memCatalog) GetAllItems(ctx context.Context) ([]models.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]models.CatalogItem{}, c.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *memCatalog) GetItemsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []models.CatalogItem{}
	for _, it := range c.items {
		for _, id := range ids {
			if it.ID == id {
				out = append(out, it)
				break
			}
		}
	}
	return out, nil
}

func (c *memCatalog) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

var errStoreDown = errors.New("store unavailable")

type recordingPublisher struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (p *recordingPublisher) Publish(userID primitive.ObjectID, notif *models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, *notif)
}

package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/repository"
	"github.com/Dias221467/Recipe_Manager/internal/search"
	jwtutil "github.com/Dias221467/Recipe_Manager/pkg/jwt"
	"github.com/Dias221467/Recipe_Manager/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memNotifications struct {
	mu    sync.Mutex
	items []models.Notification
}

func (m *memNotifications) CreateNotification(ctx context.Context, notif *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notif.ID = primitive.NewObjectID()
	notif.CreatedAt = time.Now()
	m.items = append(m.items, *notif)
	return nil
}

func (m *memNotifications) GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			cp := m.items[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memNotifications) list(userID primitive.ObjectID, unreadOnly bool) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, n := range m.items {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out
}

func (m *memNotifications) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return m.list(userID, false), nil
}

func (m *memNotifications) GetUnreadNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return m.list(userID, true), nil
}

func (m *memNotifications) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return int64(len(m.list(userID, true))), nil
}

func (m *memNotifications) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memNotifications) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.items {
		if m.items[i].UserID == userID && !m.items[i].Read {
			m.items[i].Read = true
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memRecipes struct {
	mu    sync.Mutex
	items []models.Recipe
}

func (m *memRecipes) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe.ID = primitive.NewObjectID()
	recipe.CreatedAt = time.Now()
	m.items = append(m.items, *recipe)
	return recipe, nil
}

func (m *memRecipes) GetRecipeByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			cp := m.items[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRecipes) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == recipe.ID {
			m.items[i] = *recipe
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memRecipes) GetRecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Recipe{}
	for _, r := range m.items {
		for _, id := range ids {
			if r.ID == id {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (m *memRecipes) DeleteRecipe(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memRecipes) SearchRecipes(ctx context.Context, pred *search.Predicate, sort search.Sort, page search.Page) ([]models.Recipe, int64, error) {
	m.mu.Lock()
	all := make([]models.Recipe, len(m.items))
	copy(all, m.items)
	m.mu.Unlock()

	matched := pred.Apply(all)
	sort.Apply(matched)
	return page.Slice(matched), int64(len(matched)), nil
}

// asUser attaches claims for userID the way AuthMiddleware would.
func asUser(r *http.Request, userID primitive.ObjectID) *http.Request {
	claims := &jwtutil.Claims{UserID: userID.Hex(), Email: "cook@example.com", Role: "user"}
	return r.WithContext(middleware.WithUser(r.Context(), claims))
}

type memUsers struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{items: make(map[primitive.ObjectID]models.User)}
}

func (m *memUsers) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = primitive.NewObjectID()
	m.items[user.ID] = *user
	return user, nil
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) UpdateDietaryRestrictions(ctx context.Context, id primitive.ObjectID, ids []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.DietaryRestrictionIDs = ids
	m.items[id] = u
	return nil
}

func (m *memUsers) UpdateNotificationPreferences(ctx context.Context, id primitive.ObjectID, prefs models.NotificationPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.NotificationPreferences = prefs
	m.items[id] = u
	return nil
}

type memCatalog struct {
	mu    sync.Mutex
	items []models.CatalogItem
}

func (m *memCatalog) CreateItem(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Name == item.Name {
			return nil, repository.ErrDuplicate
		}
	}
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now()
	m.items = append(m.items, *item)
	return item, nil
}

func (m *memCatalog) GetItemByID(ctx context.Context, id primitive.ObjectID) (*models.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCatalog) GetItemByName(ctx context.Context, name string) (*models.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Name == name {
			return &it, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCatalog) GetAllItems(ctx context.Context) ([]models.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CatalogItem{}, m.items...), nil
}

func (m *memCatalog) GetItemsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CatalogItem{}
	for _, it := range m.items {
		for _, id := range ids {
			if it.ID == id {
				out = append(out, it)
				break
			}
		}
	}
	return out, nil
}

func (m *memCatalog) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memPlans struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.MealPlan
}

func newMemPlans() *memPlans {
	return &memPlans{items: make(map[primitive.ObjectID]models.MealPlan)}
}

func (m *memPlans) CreateMealPlan(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	m.items[plan.ID] = *plan
	return plan, nil
}

func (m *memPlans) GetMealPlanByID(ctx context.Context, id primitive.ObjectID) (*models.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memPlans) GetMealPlansByUser(ctx context.Context, userID primitive.ObjectID) ([]models.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.MealPlan{}
	for _, p := range m.items {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPlans) UpdateMealPlan(ctx context.Context, plan *models.MealPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	m.items[plan.ID] = *plan
	return nil
}

func (m *memPlans) DeleteMealPlan(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memLists struct {
	mu    sync.Mutex
	items []models.ShoppingList
}

func (m *memLists) CreateShoppingList(ctx context.Context, list *models.ShoppingList) (*models.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list.ID = primitive.NewObjectID()
	list.CreatedAt = time.Now()
	m.items = append(m.items, *list)
	return list, nil
}

func (m *memLists) GetShoppingListByID(ctx context.Context, id primitive.ObjectID) (*models.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.items {
		if l.ID == id {
			l.Items = append([]models.ShoppingListItem(nil), l.Items...)
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetShoppingListsByUser returns newest first, which is reverse insertion order here.
func (m *memLists) GetShoppingListsByUser(ctx context.Context, userID primitive.ObjectID, page search.Page) ([]models.ShoppingList, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []models.ShoppingList
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].UserID == userID {
			mine = append(mine, m.items[i])
		}
	}
	start := int(page.Skip())
	if start > len(mine) {
		start = len(mine)
	}
	end := start + page.Size
	if end > len(mine) {
		end = len(mine)
	}
	return append([]models.ShoppingList{}, mine[start:end]...), int64(len(mine)), nil
}

func (m *memLists) SetItemPurchased(ctx context.Context, listID, ingredientID primitive.ObjectID, purchased bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID != listID {
			continue
		}
		for j := range m.items[i].Items {
			if m.items[i].Items[j].IngredientID == ingredientID {
				m.items[i].Items[j].Purchased = purchased
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (m *memLists) DeleteShoppingList(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

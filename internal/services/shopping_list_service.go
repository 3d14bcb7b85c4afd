package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/search"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShoppingListStore interface {
	CreateShoppingList(ctx context.Context, list *models.ShoppingList) (*models.ShoppingList, error)
	GetShoppingListByID(ctx context.Context, id primitive.ObjectID) (*models.ShoppingList, error)
	GetShoppingListsByUser(ctx context.Context, userID primitive.ObjectID, page search.Page) ([]models.ShoppingList, int64, error)
	SetItemPurchased(ctx context.Context, listID, ingredientID primitive.ObjectID, purchased bool) error
	DeleteShoppingList(ctx context.Context, id primitive.ObjectID) error
}

type ShoppingListService struct {
	repo        ShoppingListStore
	recipes     RecipeLookup
	ingredients CatalogLookup
}

func NewShoppingListService(repo ShoppingListStore, recipes RecipeLookup, ingredients CatalogLookup) *ShoppingListService {
	return &ShoppingListService{repo: repo, recipes: recipes, ingredients: ingredients}
}

// CreateShoppingList builds a list from the ingredients of the given recipes. Every
// recipe id must exist. Items follow the order the ingredients first appear in.
func (s *ShoppingListService) CreateShoppingList(ctx context.Context, userID primitive.ObjectID, title string, recipeIDs []primitive.ObjectID) (*models.ShoppingList, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	recipeIDs = dedupIDs(recipeIDs)
	if len(recipeIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one recipe is required", ErrInvalidInput)
	}

	found, err := s.recipes.GetRecipesByIDs(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Recipe, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	ordered := make([]models.Recipe, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		r, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("recipe %s: %w", id.Hex(), ErrNotFound)
		}
		ordered = append(ordered, r)
	}

	items, err := s.buildItems(ctx, ordered)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.CreateShoppingList(ctx, &models.ShoppingList{
		UserID:    userID,
		Title:     title,
		RecipeIDs: recipeIDs,
		Items:     items,
	})
	if err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"shoppingListID": list.ID.Hex(),
		"items":          len(items),
	}).Info("Shopping list created")
	return list, nil
}

// buildItems merges the recipes' ingredients into one item per ingredient. Quantities
// of a repeated ingredient are joined with " + ".
func (s *ShoppingListService) buildItems(ctx context.Context, recipes []models.Recipe) ([]models.ShoppingListItem, error) {
	var order []primitive.ObjectID
	merged := make(map[primitive.ObjectID]*models.ShoppingListItem)

	for _, r := range recipes {
		entries := r.Ingredients
		if len(entries) == 0 {
			for _, id := range r.IngredientIDs {
				entries = append(entries, models.RecipeIngredient{IngredientID: id})
			}
		}
		for _, e := range entries {
			item, ok := merged[e.IngredientID]
			if !ok {
				item = &models.ShoppingListItem{IngredientID: e.IngredientID, RecipeIDs: []primitive.ObjectID{}}
				merged[e.IngredientID] = item
				order = append(order, e.IngredientID)
			}
			if q := strings.TrimSpace(e.Quantity); q != "" {
				if item.Quantity == "" {
					item.Quantity = q
				} else {
					item.Quantity += " + " + q
				}
			}
			item.RecipeIDs = append(item.RecipeIDs, r.ID)
		}
	}

	catalog, err := s.ingredients.GetItemsByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(catalog))
	for _, it := range catalog {
		names[it.ID] = it.Name
	}

	items := make([]models.ShoppingListItem, 0, len(order))
	for _, id := range order {
		item := merged[id]
		item.Name = names[id]
		items = append(items, *item)
	}
	return items, nil
}

func (s *ShoppingListService) GetShoppingList(ctx context.Context, userID, id primitive.ObjectID) (*models.ShoppingList, error) {
	list, err := s.repo.GetShoppingListByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if list.UserID != userID {
		return nil, ErrForbidden
	}
	return list, nil
}

// GetShoppingLists returns one page of the caller's lists, newest first.
func (s *ShoppingListService) GetShoppingLists(ctx context.Context, userID primitive.ObjectID, page search.Page) (*models.ShoppingListPage, error) {
	lists, total, err := s.repo.GetShoppingListsByUser(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return &models.ShoppingListPage{
		Content:       lists,
		TotalElements: total,
		TotalPages:    page.TotalPages(total),
		Page:          page.Number,
		Size:          page.Size,
	}, nil
}

// SetItemPurchased marks an item of one of the caller's lists as bought or not.
func (s *ShoppingListService) SetItemPurchased(ctx context.Context, userID, listID, ingredientID primitive.ObjectID, purchased bool) (*models.ShoppingList, error) {
	list, err := s.GetShoppingList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range list.Items {
		if list.Items[i].IngredientID == ingredientID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("ingredient %s is not on the list: %w", ingredientID.Hex(), ErrNotFound)
	}

	if err := s.repo.SetItemPurchased(ctx, listID, ingredientID, purchased); err != nil {
		return nil, err
	}
	list.Items[idx].Purchased = purchased
	return list, nil
}

func (s *ShoppingListService) DeleteShoppingList(ctx context.Context, userID, id primitive.ObjectID) error {
	if _, err := s.GetShoppingList(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteShoppingList(ctx, id)
}

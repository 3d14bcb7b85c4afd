package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/search"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ShoppingListRepository struct {
	collection *mongo.Collection
}

func NewShoppingListRepository(db *mongo.Database) *ShoppingListRepository {
	return &ShoppingListRepository{
		collection: db.Collection("shopping_lists"),
	}
}

func (r *ShoppingListRepository) CreateShoppingList(ctx context.Context, list *models.ShoppingList) (*models.ShoppingList, error) {
	list.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, list)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert shopping list")
		return nil, fmt.Errorf("failed to create shopping list: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		list.ID = id
	}
	return list, nil
}

func (r *ShoppingListRepository) GetShoppingListByID(ctx context.Context, id primitive.ObjectID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to find shopping list: %w", notFoundOr(err))
	}
	return &list, nil
}

// GetShoppingListsByUser returns one page of the user's lists, newest first, and
// the total number of lists the user has.
func (r *ShoppingListRepository) GetShoppingListsByUser(ctx context.Context, userID primitive.ObjectID, page search.Page) ([]models.ShoppingList, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count shopping lists: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Size))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch shopping lists: %w", err)
	}
	defer cursor.Close(ctx)

	lists := []models.ShoppingList{}
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, 0, fmt.Errorf("failed to decode shopping lists: %w", err)
	}
	return lists, total, nil
}

// SetItemPurchased flips the purchased flag of the list item for ingredientID.
func (r *ShoppingListRepository) SetItemPurchased(ctx context.Context, listID, ingredientID primitive.ObjectID, purchased bool) error {
	filter := bson.M{"_id": listID, "items.ingredient_id": ingredientID}
	update := bson.M{"$set": bson.M{"items.$.purchased": purchased}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithError(err).WithField("shoppingListID", listID.Hex()).Error("Failed to update shopping list item")
		return fmt.Errorf("failed to update shopping list item: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update shopping list item: %w", ErrNotFound)
	}
	return nil
}

func (r *ShoppingListRepository) DeleteShoppingList(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete shopping list: %w", ErrNotFound)
	}
	return nil
}

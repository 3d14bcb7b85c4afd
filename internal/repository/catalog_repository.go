package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	IngredientsCollection = "ingredients"
	MealTypesCollection   = "meal_types"
)

// CatalogRepository stores one named lookup list. Ingredients and meal types share
// the same shape and differ only by collection.
type CatalogRepository struct {
	collection *mongo.Collection
}

func NewIngredientRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{collection: db.Collection(IngredientsCollection)}
}

func NewMealTypeRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{collection: db.Collection(MealTypesCollection)}
}

// CreateItem inserts an item. A name already in the catalog yields ErrDuplicate.
func (r *CatalogRepository) CreateItem(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error) {
	item.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		logrus.WithError(err).WithField("collection", r.collection.Name()).Warn("Failed to insert catalog item")
		return nil, fmt.Errorf("failed to create %s item: %w", r.collection.Name(), duplicateOr(err))
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		item.ID = id
	}
	return item, nil
}

func (r *CatalogRepository) GetItemByID(ctx context.Context, id primitive.ObjectID) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to find %s item: %w", r.collection.Name(), notFoundOr(err))
	}
	return &item, nil
}

func (r *CatalogRepository) GetItemByName(ctx context.Context, name string) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to find %s item: %w", r.collection.Name(), notFoundOr(err))
	}
	return &item, nil
}

// GetAllItems lists the catalog ordered by name.
func (r *CatalogRepository) GetAllItems(ctx context.Context) ([]models.CatalogItem, error) {
	return r.find(ctx, bson.M{})
}

// GetItemsByIDs returns the items among ids that exist, ordered by name.
func (r *CatalogRepository) GetItemsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.CatalogItem, error) {
	if len(ids) == 0 {
		return []models.CatalogItem{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *CatalogRepository) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s item: %w", r.collection.Name(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete %s item: %w", r.collection.Name(), ErrNotFound)
	}
	return nil
}

func (r *CatalogRepository) find(ctx context.Context, filter bson.M) ([]models.CatalogItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s items: %w", r.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	items := []models.CatalogItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s items: %w", r.collection.Name(), err)
	}
	return items, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/repository"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogStore interface {
	CreateItem(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error)
	GetItemByID(ctx context.Context, id primitive.ObjectID) (*models.CatalogItem, error)
	GetItemByName(ctx context.Context, name string) (*models.CatalogItem, error)
	GetAllItems(ctx context.Context) ([]models.CatalogItem, error)
	GetItemsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.CatalogItem, error)
	DeleteItem(ctx context.Context, id primitive.ObjectID) error
}

// CatalogLookup resolves catalog ids to items.
type CatalogLookup interface {
	GetItemsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.CatalogItem, error)
}

// CatalogService manages one lookup list (ingredients or meal types).
type CatalogService struct {
	kind string
	repo CatalogStore
}

// NewCatalogService returns a service for the catalog named kind, used in errors and logs.
func NewCatalogService(kind string, repo CatalogStore) *CatalogService {
	return &CatalogService{kind: kind, repo: repo}
}

func (s *CatalogService) CreateItem(ctx context.Context, name string) (*models.CatalogItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: %s name is required", ErrInvalidInput, s.kind)
	}

	if _, err := s.repo.GetItemByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %s %q", ErrConflict, s.kind, name)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	item, err := s.repo.CreateItem(ctx, &models.CatalogItem{Name: name})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("%w: %s %q", ErrConflict, s.kind, name)
	}
	if err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"kind": s.kind,
		"id":   item.ID.Hex(),
	}).Info("Catalog item created")
	return item, nil
}

func (s *CatalogService) GetItem(ctx context.Context, id primitive.ObjectID) (*models.CatalogItem, error) {
	return s.repo.GetItemByID(ctx, id)
}

func (s *CatalogService) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	return s.repo.GetAllItems(ctx)
}

func (s *CatalogService) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.DeleteItem(ctx, id)
}

// resolveCatalog maps every id to its item and fails with ErrInvalidInput naming the
// first id the catalog does not know.
func resolveCatalog(ctx context.Context, catalog CatalogLookup, kind string, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CatalogItem, error) {
	items, err := catalog.GetItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.CatalogItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: unknown %s %s", ErrInvalidInput, kind, id.Hex())
		}
	}
	return byID, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// ProductIndex is the full-text index products are mirrored into.
type ProductIndex interface {
	EnsureIndex(ctx context.Context) error
	IndexProducts(ctx context.Context, products []models.Product) error
	Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
}

type CatalogService struct {
	Repo  *repo.GormRepo
	Index ProductIndex
}

type SearchResult struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

func (h *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return h.Repo.ListProducts(ctx)
}

// Get returns nil without error for an unknown id.
func (h *CatalogService) Get(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, newError(ErrValidation, "invalid product id")
	}
	p, err := h.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// Search uses the index when one is configured and falls back to the
// store when there is none or the index fails.
func (h *CatalogService) Search(ctx context.Context, query string, offset, limit int) (*SearchResult, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newError(ErrValidation, "query is required")
	}

	if h.Index != nil {
		total, ids, err := h.Index.Search(ctx, query, offset, limit)
		if err == nil {
			products, err := h.Repo.GetProductsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return &SearchResult{Total: total, Products: products}, nil
		}
		l.Warn("index_search_error", "reason", "falling back to store", "error", err)
	}

	products, total, err := h.Repo.SearchProducts(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Total: total, Products: products}, nil
}

// Import upserts products and mirrors them into the index.
func (h *CatalogService) Import(ctx context.Context, products []models.Product) error {
	for i := range products {
		p := &products[i]
		if strings.TrimSpace(p.Name) == "" {
			return newError(ErrValidation, "product %d: name is required", i+1)
		}
		if p.Price.IsNegative() {
			return newError(ErrValidation, "product %q: price must not be negative", p.Name)
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	}

	if err := h.Repo.UpsertProducts(ctx, products); err != nil {
		return err
	}

	if h.Index == nil {
		return nil
	}
	if err := h.Index.EnsureIndex(ctx); err != nil {
		return err
	}
	return h.Index.IndexProducts(ctx, products)
}

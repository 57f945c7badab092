package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"jewelry-assistant-be/internal/repository/contract"
	"jewelry-assistant-be/internal/repository/specification"
	"jewelry-assistant-be/pkg/store"
)

const catalogKey = "catalog:active"

// CatalogCache serves the full active catalog for attribute scans without
// hitting Postgres on every turn. Entries expire so catalog edits show up
// within a few minutes.
type CatalogCache struct {
	products contract.ProductRepository
	cache    *cache.Cache
}

func NewCatalogCache(products contract.ProductRepository) *CatalogCache {
	// Purge expired entries every 10 minutes; the catalog itself lives 5.
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &CatalogCache{
		products: products,
		cache:    c,
	}
}

// Products returns the active catalog, from cache when fresh.
func (r *CatalogCache) Products(ctx context.Context) ([]store.Product, error) {
	if x, found := r.cache.Get(catalogKey); found {
		return x.([]store.Product), nil
	}

	entities, err := r.products.FindAll(ctx, specification.ActiveOnly{})
	if err != nil {
		return nil, err
	}

	products := make([]store.Product, len(entities))
	for i, p := range entities {
		products[i] = *p
	}

	r.cache.Set(catalogKey, products, cache.DefaultExpiration)
	return products, nil
}

// Invalidate drops the cached catalog, forcing the next read to reload.
func (r *CatalogCache) Invalidate() {
	r.cache.Delete(catalogKey)
}

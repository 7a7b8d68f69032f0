package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/storify/storify-backend/internal/app/model"
	"github.com/storify/storify-backend/pkg/catalog"
	"github.com/storify/storify-backend/pkg/logger"
)

var ErrProductNotFound = errors.New("product not found")

// catalogCacheKey holds the aggregated listing in Redis.
const catalogCacheKey = "storify:catalog:products"

// featuredCount is how many products the home page shows.
const featuredCount = 4

// ProductFilter narrows a catalog listing. Empty fields match everything;
// Category "all" is equivalent to empty.
type ProductFilter struct {
	Search   string
	Category string
	Source   string
}

type ProductService interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, source string, id int64) (*model.Product, error)
	RefreshCache(ctx context.Context) error
}

type productService struct {
	reader   *catalog.Reader
	cache    *goredis.Client // nil disables caching
	cacheTTL time.Duration
}

func NewProductService(reader *catalog.Reader, cache *goredis.Client, cacheTTL time.Duration) ProductService {
	return &productService{
		reader:   reader,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *productService) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	products, err := s.listAll(ctx)
	if err != nil {
		logger.Error("Failed to fetch catalog listing", err, nil)
		return nil, err
	}

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if matchesFilter(p, filter) {
			filtered = append(filtered, p)
		}
	}

	logger.Info("Catalog listing fetched", map[string]interface{}{
		"total":    len(products),
		"returned": len(filtered),
	})
	return filtered, nil
}

func (s *productService) GetFeaturedProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.listAll(ctx)
	if err != nil {
		logger.Error("Failed to fetch featured products", err, nil)
		return nil, err
	}

	if len(products) > featuredCount {
		products = products[:featuredCount]
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, source string, id int64) (*model.Product, error) {
	product, err := s.reader.Get(ctx, source, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, catalog.ErrUnknownSource) {
			logger.Warn("Product not found in any catalog", map[string]interface{}{
				"product_id": id,
				"source":     source,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
			"source":     source,
		})
		return nil, err
	}
	return product, nil
}

// RefreshCache re-fetches the aggregated listing and replaces the cached
// copy. No-op without a cache.
func (s *productService) RefreshCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	products, err := s.reader.ListAll(ctx)
	if err != nil {
		return err
	}
	s.storeCache(ctx, products)

	logger.Info("Catalog cache refreshed", map[string]interface{}{
		"products": len(products),
	})
	return nil
}

// listAll serves the aggregated listing from cache when possible, falling
// back to a live fetch.
func (s *productService) listAll(ctx context.Context) ([]model.Product, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, catalogCacheKey).Bytes()
		if err == nil {
			var products []model.Product
			if err := json.Unmarshal(data, &products); err == nil {
				logger.Debug("Catalog listing served from cache", map[string]interface{}{
					"products": len(products),
				})
				return products, nil
			}
			logger.Warn("Cached catalog listing is malformed, refetching", nil)
		} else if !errors.Is(err, goredis.Nil) {
			logger.Warn("Catalog cache unavailable, fetching live", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	products, err := s.reader.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.storeCache(ctx, products)
	return products, nil
}

func (s *productService) storeCache(ctx context.Context, products []model.Product) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, catalogCacheKey, data, s.cacheTTL).Err(); err != nil {
		logger.Warn("Failed to cache catalog listing", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func matchesFilter(p model.Product, filter ProductFilter) bool {
	if filter.Source != "" && p.Source != filter.Source {
		return false
	}

	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			return false
		}
	}

	if filter.Category != "" && filter.Category != "all" {
		if !strings.Contains(strings.ToLower(p.Category), strings.ToLower(filter.Category)) {
			return false
		}
	}

	return true
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RevInsanity/temu-clone/models"
)

const (
	productListCachePrefix = "products:v:"
	productCacheVersionKey = "products:version"
)

// ProductListCache caches product listings in Redis. Invalidation bumps a
// version counter instead of scanning for stale keys; old entries simply
// expire.
type ProductListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductListCache(client *redis.Client, ttl time.Duration) *ProductListCache {
	return &ProductListCache{client: client, ttl: ttl}
}

func (c *ProductListCache) listKey(version int64, filter ProductFilter) string {
	return fmt.Sprintf("%s%d:cat=%s:q=%s", productListCachePrefix, version, filter.Category, filter.Search)
}

func (c *ProductListCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, productCacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	return v, err
}

// GetList retrieves a cached product list for the filter.
func (c *ProductListCache) GetList(ctx context.Context, filter ProductFilter) ([]models.Product, bool) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, c.listKey(version, filter)).Result()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return products, true
}

// SetListAsync caches a product list without blocking the request.
func (c *ProductListCache) SetListAsync(filter ProductFilter, products []models.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := c.version(ctx)
		if err != nil {
			return
		}
		data, err := json.Marshal(products)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := c.client.Set(ctx, c.listKey(version, filter), data, c.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate drops all cached lists by bumping the version counter.
func (c *ProductListCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, productCacheVersionKey).Err(); err != nil {
		zap.L().Warn("Failed to bump product cache version", zap.Error(err))
	}
}

// Package cache holds Redis read-through decorators for hot catalog reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/product"
)

const (
	notFoundMarker = "notfound"
	notFoundTTL    = time.Minute
)

// CachedProductRepository caches single-product lookups, which every cart read
// and checkout reprice performs. Filtered listings go straight to the store.
// Redis failures degrade to the underlying repository.
type CachedProductRepository struct {
	realRepo product.Repository
	redis    *redis.Client
	ttl      time.Duration
	log      *zap.Logger
}

func NewCachedProductRepository(realRepo product.Repository, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedProductRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProductRepository{realRepo: realRepo, redis: rdb, ttl: ttl, log: log}
}

func productKey(id int) string { return fmt.Sprintf("product:%d", id) }

func (c *CachedProductRepository) GetByID(ctx context.Context, id int) (product.Product, error) {
	key := productKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return product.Product{}, product.ErrNotFound
		}
		var p product.Product
		if err := json.Unmarshal(data, &p); err == nil {
			return p, nil
		}
		c.log.Warn("corrupt cached product, reading store", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("redis get failed, reading store", zap.String("key", key), zap.Error(err))
	}

	p, err := c.realRepo.GetByID(ctx, id)
	if errors.Is(err, product.ErrNotFound) {
		if setErr := c.redis.Set(ctx, key, notFoundMarker, notFoundTTL).Err(); setErr != nil {
			c.log.Warn("cache notfound failed", zap.String("key", key), zap.Error(setErr))
		}
		return product.Product{}, err
	}
	if err != nil {
		return product.Product{}, err
	}
	c.store(ctx, p)
	return p, nil
}

func (c *CachedProductRepository) ListByIDs(ctx context.Context, ids []int) ([]product.Product, error) {
	if len(ids) == 0 {
		return []product.Product{}, nil
	}

	ids = dedupe(ids)
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	found := make([]product.Product, 0, len(ids))
	missing := ids
	if vals, err := c.redis.MGet(ctx, keys...).Result(); err != nil {
		c.log.Warn("redis mget failed, reading store", zap.Int("keys", len(keys)), zap.Error(err))
	} else {
		missing = nil
		for i, v := range vals {
			s, ok := v.(string)
			if !ok {
				missing = append(missing, ids[i])
				continue
			}
			if s == notFoundMarker {
				continue
			}
			var p product.Product
			if err := json.Unmarshal([]byte(s), &p); err != nil {
				missing = append(missing, ids[i])
				continue
			}
			found = append(found, p)
		}
	}

	if len(missing) > 0 {
		fresh, err := c.realRepo.ListByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, p := range fresh {
			c.store(ctx, p)
		}
		found = append(found, fresh...)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

func (c *CachedProductRepository) List(ctx context.Context, f product.Filter) ([]product.Product, error) {
	return c.realRepo.List(ctx, f)
}

func (c *CachedProductRepository) Create(ctx context.Context, p product.Product) (product.Product, error) {
	created, err := c.realRepo.Create(ctx, p)
	if err != nil {
		return product.Product{}, err
	}
	// drop a stale notfound marker for the new id
	c.invalidate(ctx, created.ID)
	return created, nil
}

func (c *CachedProductRepository) Update(ctx context.Context, id int, patch product.Patch) (product.Product, error) {
	c.invalidate(ctx, id)
	updated, err := c.realRepo.Update(ctx, id, patch)
	if err != nil {
		return product.Product{}, err
	}
	c.invalidate(ctx, id)
	return updated, nil
}

func (c *CachedProductRepository) Retire(ctx context.Context, id int) error {
	if err := c.realRepo.Retire(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedProductRepository) store(ctx context.Context, p product.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		c.log.Warn("marshal product for cache", zap.Int("product_id", p.ID), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, productKey(p.ID), data, c.ttl).Err(); err != nil {
		c.log.Warn("cache product failed", zap.Int("product_id", p.ID), zap.Error(err))
	}
}

func (c *CachedProductRepository) invalidate(ctx context.Context, id int) {
	if err := c.redis.Del(ctx, productKey(id)).Err(); err != nil {
		c.log.Warn("invalidate product cache failed", zap.Int("product_id", id), zap.Error(err))
	}
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

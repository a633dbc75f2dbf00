package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"examprep/internal/logger"
	"examprep/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// cachedRepository serves GetItem from redis and falls back to the wrapped
// repository on a miss or when redis is unreachable.
type cachedRepository struct {
	Repository
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCachedRepository(repo Repository, rdb redis.Cmdable, ttl time.Duration) Repository {
	return &cachedRepository{Repository: repo, rdb: rdb, ttl: ttl}
}

func itemCacheKey(itemType ItemType, id int) string {
	return fmt.Sprintf("catalog:item:%s:%d", itemType, id)
}

func (r *cachedRepository) GetItem(ctx context.Context, itemType ItemType, id int) (*Item, error) {
	key := itemCacheKey(itemType, id)

	data, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var item Item
		if jsonErr := json.Unmarshal(data, &item); jsonErr == nil {
			metrics.RecordCacheLookup("hit")
			return &item, nil
		}
		logger.Warn("discarding undecodable catalog cache entry", "key", key)
		metrics.RecordCacheLookup("corrupt")
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheLookup("miss")
	default:
		logger.Warn("catalog cache read failed", "key", key, "error", err)
		metrics.RecordCacheLookup("error")
	}

	item, err := r.Repository.GetItem(ctx, itemType, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(item); err == nil {
		if err := r.rdb.Set(ctx, key, string(data), r.ttl).Err(); err != nil {
			logger.Warn("catalog cache write failed", "key", key, "error", err)
		}
	}

	return item, nil
}

func (r *cachedRepository) UpdateStatus(ctx context.Context, itemType ItemType, id int, status Status) error {
	if err := r.Repository.UpdateStatus(ctx, itemType, id, status); err != nil {
		return err
	}
	r.evict(ctx, itemType, id)
	return nil
}

func (r *cachedRepository) evict(ctx context.Context, itemType ItemType, id int) {
	key := itemCacheKey(itemType, id)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logger.Warn("catalog cache evict failed", "key", key, "error", err)
	}
}

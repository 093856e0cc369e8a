package services

import (
	"ashtray_server/structs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

const productKeyPrefix = "products:"

// CacheService wraps Redis for the product catalog cache and rate-limit counters.
// A service built with caching disabled behaves as a permanent cache miss.
type CacheService struct {
	logger *gecho.Logger
	cfg    *structs.CacheConfig
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.CacheConfig) *CacheService {
	cs := &CacheService{logger: logger, cfg: cfg}
	if cfg == nil || !cfg.Enabled {
		return cs
	}

	cs.client = redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
	})
	return cs
}

// NewCacheServiceWithClient is used by tests to inject a client.
func NewCacheServiceWithClient(logger *gecho.Logger, cfg *structs.CacheConfig, client *redis.Client) *CacheService {
	return &CacheService{logger: logger, cfg: cfg, client: client}
}

func (cs *CacheService) Enabled() bool {
	return cs != nil && cs.client != nil
}

func (cs *CacheService) Close() error {
	if !cs.Enabled() {
		return nil
	}
	return cs.client.Close()
}

func (cs *CacheService) Ping(ctx context.Context) error {
	if !cs.Enabled() {
		return nil
	}
	return cs.client.Ping(ctx).Err()
}

func (cs *CacheService) productTTL() time.Duration {
	if cs.cfg != nil && cs.cfg.ProductTTL > 0 {
		return cs.cfg.ProductTTL
	}
	return 5 * time.Minute
}

// getJSON returns false on a miss. Cache failures are logged and treated as misses.
func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, bool) {
	if !cs.Enabled() {
		return nil, false
	}

	val, err := cs.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		cs.logger.Warn("Cache read failed", gecho.Field("key", key), gecho.Field("error", err))
		return nil, false
	}

	var out T
	if err := json.Unmarshal(val, &out); err != nil {
		cs.logger.Warn("Discarding corrupt cache entry", gecho.Field("key", key), gecho.Field("error", err))
		return nil, false
	}
	return &out, true
}

func setJSON[T any](ctx context.Context, cs *CacheService, key string, value T, ttl time.Duration) {
	if !cs.Enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		cs.logger.Warn("Failed to encode cache entry", gecho.Field("key", key), gecho.Field("error", err))
		return
	}
	if err := cs.client.Set(ctx, key, data, ttl).Err(); err != nil {
		cs.logger.Warn("Cache write failed", gecho.Field("key", key), gecho.Field("error", err))
	}
}

// InvalidateProducts drops every cached catalog entry.
func (cs *CacheService) InvalidateProducts(ctx context.Context) {
	if !cs.Enabled() {
		return
	}

	iter := cs.client.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		cs.logger.Warn("Failed to scan product cache keys", gecho.Field("error", err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := cs.client.Del(ctx, keys...).Err(); err != nil {
		cs.logger.Warn("Failed to invalidate product cache", gecho.Field("error", err))
	}
}

// IncrementRateLimit atomically increments a fixed-window counter and returns the new count.
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, error) {
	if !cs.Enabled() {
		return 0, errors.New("cache disabled")
	}

	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)

	pipe := cs.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

// Package cache keeps the joined public catalog in Redis between writes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"insta-marketplace/catalog"
	"insta-marketplace/config"
	"insta-marketplace/metrics"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CatalogKey is the Redis key holding the undecorated catalog.
const CatalogKey = "catalog:all"

// Catalog caches the joined product views. Implementations never fail a
// request: backend errors behave like a miss.
type Catalog interface {
	Get(ctx context.Context) ([]catalog.ProductView, bool)
	Set(ctx context.Context, views []catalog.ProductView)
	Invalidate(ctx context.Context)
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(ctx context.Context) ([]catalog.ProductView, bool) { return nil, false }

func (Noop) Set(ctx context.Context, views []catalog.ProductView) {}

func (Noop) Invalidate(ctx context.Context) {}

type RedisCatalog struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatalog(rdb *redis.Client, ttl time.Duration) *RedisCatalog {
	return &RedisCatalog{rdb: rdb, ttl: ttl}
}

// Connect builds the catalog cache from configuration. A failed ping is
// returned so the caller can decide whether to fall back to Noop.
func Connect(ctx context.Context, conf config.RedisConfig) (Catalog, error) {
	if conf.Addr == "" {
		return Noop{}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return Noop{}, fmt.Errorf("cache: redis ping: %w", err)
	}
	return NewRedisCatalog(rdb, conf.TTL), nil
}

func (c *RedisCatalog) Get(ctx context.Context) ([]catalog.ProductView, bool) {
	val, err := c.rdb.Get(ctx, CatalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup("miss")
		return nil, false
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "RedisCatalog.Get").Msg("")
		metrics.RecordCacheLookup("error")
		return nil, false
	}

	var views []catalog.ProductView
	if err := json.Unmarshal(val, &views); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "RedisCatalog.Get").Msg("discarding unreadable entry")
		metrics.RecordCacheLookup("error")
		return nil, false
	}
	metrics.RecordCacheLookup("hit")
	return views, true
}

func (c *RedisCatalog) Set(ctx context.Context, views []catalog.ProductView) {
	data, err := json.Marshal(views)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "RedisCatalog.Set").Msg("")
		return
	}
	if err := c.rdb.Set(ctx, CatalogKey, data, c.ttl).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "RedisCatalog.Set").Msg("")
	}
}

func (c *RedisCatalog) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, CatalogKey).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "RedisCatalog.Invalidate").Msg("")
	}
}

func (c *RedisCatalog) Close() error {
	return c.rdb.Close()
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

const (
	activeCatalogKey = "catalog:active"
	defaultCacheTTL  = 5 * time.Minute
)

// Client is the slice of the go-redis API the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ ports.CatalogRepository = (*CatalogCache)(nil)

// CatalogCache is a read-through cache in front of a CatalogRepository for
// the public service listing. Cache failures fall back to the repository.
type CatalogCache struct {
	ports.CatalogRepository
	client Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCatalogCache wraps repo. A non-positive ttl uses the default.
func NewCatalogCache(repo ports.CatalogRepository, client Client, ttl time.Duration, log zerolog.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CatalogCache{CatalogRepository: repo, client: client, ttl: ttl, log: log}
}

// ListActive serves the active catalog from Redis, loading and storing it on
// a miss.
func (c *CatalogCache) ListActive(ctx context.Context) ([]domain.Service, error) {
	raw, err := c.client.Get(ctx, activeCatalogKey).Bytes()
	switch {
	case err == nil:
		var services []domain.Service
		if jsonErr := json.Unmarshal(raw, &services); jsonErr == nil {
			return services, nil
		}
		c.log.Warn().Str("key", activeCatalogKey).Msg("discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Msg("catalog cache read failed, using store")
	}

	services, err := c.CatalogRepository.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(services); err == nil {
		if err := c.client.Set(ctx, activeCatalogKey, payload, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return services, nil
}

// Create inserts through to the repository and drops the cached listing.
func (c *CatalogCache) Create(ctx context.Context, svc *domain.Service) error {
	if err := c.CatalogRepository.Create(ctx, svc); err != nil {
		return err
	}
	if err := c.client.Del(ctx, activeCatalogKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
	return nil
}

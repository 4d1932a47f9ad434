package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	contractapp "github.com/helpdesk/backend/internal/application/contract"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCatalogCache implements the catalog cache using Redis. Suitable for
// distributed deployments where multiple instances serve the same tenants.
type RedisCatalogCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCatalogCache creates a Redis-backed catalog cache and verifies the
// connection.
func NewRedisCatalogCache(addr, password string, db int, ttl time.Duration) (*RedisCatalogCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCatalogCacheWithClient(client, ttl), nil
}

// NewRedisCatalogCacheWithClient creates a cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisCatalogCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCatalogCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &RedisCatalogCache{
		client:    client,
		keyPrefix: "catalog:tenant:",
		ttl:       ttl,
	}
}

func (c *RedisCatalogCache) key(tenantID uuid.UUID) string {
	return c.keyPrefix + tenantID.String()
}

// Get returns the cached catalog for a tenant. found=false means a miss; the
// caller recomputes.
func (c *RedisCatalogCache) Get(ctx context.Context, tenantID uuid.UUID) ([]contractapp.CatalogEntry, bool, error) {
	payload, err := c.client.Get(ctx, c.key(tenantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read catalog cache: %w", err)
	}

	var entries []contractapp.CatalogEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		// A corrupt payload is a miss; the next Set overwrites it.
		return nil, false, fmt.Errorf("failed to decode catalog cache: %w", err)
	}
	return entries, true, nil
}

// Set stores the catalog for a tenant with the configured TTL
func (c *RedisCatalogCache) Set(ctx context.Context, tenantID uuid.UUID, entries []contractapp.CatalogEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode catalog cache: %w", err)
	}
	if err := c.client.Set(ctx, c.key(tenantID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached catalog for a tenant. Called after any contract
// mutation so stale items never outlive the change.
func (c *RedisCatalogCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCatalogCache implements the catalog cache
var _ contractapp.CatalogCache = (*RedisCatalogCache)(nil)

package cache

import (
	"context"
	"sync"
	"time"

	contractapp "github.com/helpdesk/backend/internal/application/contract"
	"github.com/google/uuid"
)

type catalogEntry struct {
	entries   []contractapp.CatalogEntry
	expiresAt time.Time
}

// InMemoryCatalogCache implements the catalog cache using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryCatalogCache struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]catalogEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewInMemoryCatalogCache creates an in-memory catalog cache
func NewInMemoryCatalogCache(ttl time.Duration) *InMemoryCatalogCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &InMemoryCatalogCache{
		byID:    make(map[uuid.UUID]catalogEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Get returns the cached catalog for a tenant, treating expired entries as
// misses
func (c *InMemoryCatalogCache) Get(ctx context.Context, tenantID uuid.UUID) ([]contractapp.CatalogEntry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.byID[tenantID]
	if !exists || c.nowFunc().After(e.expiresAt) {
		return nil, false, nil
	}

	// Copy so callers cannot mutate the cached slice
	entries := make([]contractapp.CatalogEntry, len(e.entries))
	copy(entries, e.entries)
	return entries, true, nil
}

// Set stores the catalog for a tenant with the configured TTL
func (c *InMemoryCatalogCache) Set(ctx context.Context, tenantID uuid.UUID, entries []contractapp.CatalogEntry) error {
	stored := make([]contractapp.CatalogEntry, len(entries))
	copy(stored, entries)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[tenantID] = catalogEntry{
		entries:   stored,
		expiresAt: c.nowFunc().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the cached catalog for a tenant
func (c *InMemoryCatalogCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byID, tenantID)
	return nil
}

// Size returns the number of cached tenants (for testing/monitoring)
func (c *InMemoryCatalogCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Ensure InMemoryCatalogCache implements the catalog cache
var _ contractapp.CatalogCache = (*InMemoryCatalogCache)(nil)

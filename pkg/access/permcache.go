package access

import (
	"context"
	"slices"
	"time"

	"github.com/meridianhq/authzkit/pkg/cache"
)

const (
	// DefaultCacheTTL is how long a computed permission set stays fresh.
	DefaultCacheTTL = 300 * time.Second

	// DefaultCacheSize bounds the in-memory cache by user/org pairs.
	DefaultCacheSize = 16384
)

// PermissionCache stores computed effective permission sets per user and
// organization. Implementations must expire entries after their TTL and
// drop them on Invalidate. A failing cache should report a miss, never an
// error: the engine always recomputes on a miss.
type PermissionCache interface {
	Get(ctx context.Context, userID, orgID string) ([]string, bool)
	Set(ctx context.Context, userID, orgID string, perms []string)
	Invalidate(ctx context.Context, userID, orgID string)
}

type cacheKey struct {
	UserID string
	OrgID  string
}

// memoryCache is the default PermissionCache, a TTL-bounded LRU.
type memoryCache struct {
	entries *cache.TTLCache[cacheKey, []string]
}

// NewMemoryCache creates an in-process permission cache with the given
// capacity and TTL.
func NewMemoryCache(capacity int, ttl time.Duration) PermissionCache {
	return &memoryCache{
		entries: cache.NewTTLCache[cacheKey, []string](capacity, ttl),
	}
}

// Get returns a copy of the cached set. Callers may sort or mutate the
// returned slice without corrupting the cache, matching the Redis backend
// which decodes a fresh slice per read.
func (c *memoryCache) Get(_ context.Context, userID, orgID string) ([]string, bool) {
	perms, ok := c.entries.Get(cacheKey{UserID: userID, OrgID: orgID})
	if !ok {
		return nil, false
	}
	return slices.Clone(perms), true
}

func (c *memoryCache) Set(_ context.Context, userID, orgID string, perms []string) {
	c.entries.Put(cacheKey{UserID: userID, OrgID: orgID}, slices.Clone(perms))
}

func (c *memoryCache) Invalidate(_ context.Context, userID, orgID string) {
	c.entries.Remove(cacheKey{UserID: userID, OrgID: orgID})
}

// Package cache provides a generic, thread-safe LRU cache with per-entry
// TTL expiry.
//
// Entries expire in two ways: lazily on read once their TTL has elapsed,
// and by LRU eviction when the cache reaches its capacity. The capacity
// bound keeps memory use flat for very large key populations where pure
// TTL expiry would let the map grow without limit.
//
// Usage:
//
//	c := cache.NewTTLCache[string, []string](1024, 5*time.Minute)
//	c.Put("user-1", perms)
//	if perms, ok := c.Get("user-1"); ok {
//	    // fresh entry
//	}
//	c.Remove("user-1") // explicit invalidation
package cache

package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meridianhq/authzkit/pkg/cache"
)

func TestTTLCacheBasicOperations(t *testing.T) {
	c := cache.NewTTLCache[string, int](3, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Put("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("a", 2)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Now()
	c := cache.NewTTLCache[string, int](10, 5*time.Minute)
	c.SetClock(func() time.Time { return now })

	c.Put("a", 1)

	now = now.Add(4 * time.Minute)
	_, ok := c.Get("a")
	assert.True(t, ok, "within TTL")

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok, "past TTL")
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestTTLCacheLRUEviction(t *testing.T) {
	c := cache.NewTTLCache[string, int](2, time.Minute)

	var evicted []string
	c.SetEvictCallback(func(key string, _ int) {
		evicted = append(evicted, key)
	})

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // a becomes most recently used
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
}

func TestTTLCacheClear(t *testing.T) {
	c := cache.NewTTLCache[string, int](10, time.Minute)
	c.Put("a", 1)
	c.Put("b", 2)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCacheConcurrentAccess(t *testing.T) {
	c := cache.NewTTLCache[int, int](64, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put(j%32, i)
				c.Get(j % 32)
				if j%10 == 0 {
					c.Remove(j % 32)
				}
			}
		}()
	}
	wg.Wait()
}

func TestTTLCachePanicsOnInvalidConfig(t *testing.T) {
	assert.Panics(t, func() { cache.NewTTLCache[string, int](0, time.Minute) })
	assert.Panics(t, func() { cache.NewTTLCache[string, int](10, 0) })
}

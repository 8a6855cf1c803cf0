package access_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/authzkit/pkg/access"
)

func TestMemoryCache_SetGet(t *testing.T) {
	cache := access.NewMemoryCache(8, time.Minute)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "alice", "org-1")
	assert.False(t, ok)

	perms := []string{"invoice:*", "report:read"}
	cache.Set(ctx, "alice", "org-1", perms)

	got, ok := cache.Get(ctx, "alice", "org-1")
	require.True(t, ok)
	assert.Equal(t, perms, got)

	cache.Invalidate(ctx, "alice", "org-1")
	_, ok = cache.Get(ctx, "alice", "org-1")
	assert.False(t, ok)
}

func TestMemoryCache_ReturnsIsolatedSlices(t *testing.T) {
	cache := access.NewMemoryCache(8, time.Minute)
	ctx := context.Background()

	stored := []string{"invoice:read", "report:read"}
	cache.Set(ctx, "alice", "org-1", stored)

	// Mutating the slice handed to Set must not reach the cache.
	stored[0] = "invoice:*"

	got, ok := cache.Get(ctx, "alice", "org-1")
	require.True(t, ok)
	assert.Equal(t, []string{"invoice:read", "report:read"}, got)

	// Mutating a returned slice must not corrupt later reads.
	got[1] = "billing:*"

	again, ok := cache.Get(ctx, "alice", "org-1")
	require.True(t, ok)
	assert.Equal(t, []string{"invoice:read", "report:read"}, again)
}

package access_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/authzkit/pkg/access"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := access.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 300*time.Second, cfg.CacheTTL)
	assert.Equal(t, 16384, cfg.CacheSize)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("AUTHZ_CACHE_TTL", "30s")
	t.Setenv("AUTHZ_CACHE_SIZE", "128")

	cfg, err := access.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 128, cfg.CacheSize)
}

func TestNewCacheFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("memory cache without redis url", func(t *testing.T) {
		cache, err := access.NewCacheFromConfig(ctx, access.Config{CacheTTL: time.Minute, CacheSize: 8}, nil)
		require.NoError(t, err)

		cache.Set(ctx, "alice", "org-1", []string{"invoice:read"})
		got, ok := cache.Get(ctx, "alice", "org-1")
		require.True(t, ok)
		assert.Equal(t, []string{"invoice:read"}, got)
	})

	t.Run("redis cache", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cache, err := access.NewCacheFromConfig(ctx, access.Config{
			CacheTTL: time.Minute,
			RedisURL: "redis://" + mr.Addr(),
		}, nil)
		require.NoError(t, err)

		cache.Set(ctx, "alice", "org-1", []string{"invoice:read"})
		_, ok := cache.Get(ctx, "alice", "org-1")
		assert.True(t, ok)
	})

	t.Run("unreachable redis", func(t *testing.T) {
		_, err := access.NewCacheFromConfig(ctx, access.Config{
			CacheTTL: time.Minute,
			RedisURL: "redis://127.0.0.1:1",
		}, nil)
		assert.Error(t, err)
	})

	t.Run("malformed redis url", func(t *testing.T) {
		_, err := access.NewCacheFromConfig(ctx, access.Config{RedisURL: "://bad"}, nil)
		assert.Error(t, err)
	})
}

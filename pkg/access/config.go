package access

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Config holds the engine's tunable settings, loaded from the environment.
type Config struct {
	// CacheTTL bounds how stale a cached permission set may be.
	CacheTTL time.Duration `env:"AUTHZ_CACHE_TTL" envDefault:"300s"`
	// CacheSize caps the number of user/org entries in the in-memory cache.
	CacheSize int `env:"AUTHZ_CACHE_SIZE" envDefault:"16384"`
	// RedisURL switches the permission cache to Redis when set. It should
	// be in the format "redis://:password@localhost:6379/0".
	RedisURL string `env:"AUTHZ_REDIS_URL"`
}

// LoadConfig reads Config from the environment, loading a .env file first
// when one exists.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(errors.New("access: failed to parse config"), err)
	}
	return cfg, nil
}

// NewCacheFromConfig builds the permission cache the config calls for:
// a Redis-backed cache when RedisURL is set, the in-memory cache otherwise.
func NewCacheFromConfig(ctx context.Context, cfg Config, logger *slog.Logger) (PermissionCache, error) {
	if cfg.RedisURL == "" {
		return NewMemoryCache(cfg.CacheSize, cfg.CacheTTL), nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, errors.Join(errors.New("access: failed to parse redis url"), err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(errors.New("access: redis not ready"), err)
	}
	return NewRedisCache(client, cfg.CacheTTL, logger), nil
}

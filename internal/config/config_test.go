package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthforge/rulebook-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, time.Hour, cfg.PrimaryTTL)
	assert.Equal(t, 2*time.Hour, cfg.FluffTTL)
	assert.Equal(t, 50, cfg.CacheSize)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_PRIMARY_TTL", "15m")
	t.Setenv("CACHE_SIZE", "10")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.PrimaryTTL)
	assert.Equal(t, 10, cfg.CacheSize)
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr)
}

func TestLoadRejectsBadCacheSize(t *testing.T) {
	t.Setenv("CACHE_SIZE", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

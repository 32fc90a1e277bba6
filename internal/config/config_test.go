package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHOPIFY_SHOP_NAME", "")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "")
	t.Setenv("RESOLUTION_FETCH_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "2024-10", cfg.Shopify.APIVersion)
	assert.False(t, cfg.Shopify.Enabled())
	assert.Equal(t, 10*time.Second, cfg.Resolution.FetchTimeout())
	assert.Equal(t, 24*time.Hour, cfg.Resolution.DedupTTL())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SHOPIFY_SHOP_NAME", "quilting-co")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")
	t.Setenv("SHOPIFY_RATE_PER_SECOND", "0.5")
	t.Setenv("RESOLUTION_PERSIST", "false")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
	assert.True(t, cfg.Shopify.Enabled())
	assert.InDelta(t, 0.5, cfg.Shopify.RatePerSecond, 1e-9)
	assert.False(t, cfg.Resolution.Persist)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("REDIS_DB", "0")
	t.Setenv("SHOPIFY_RATE_PER_SECOND", "fast")
	_, err = Load()
	assert.Error(t, err)
}

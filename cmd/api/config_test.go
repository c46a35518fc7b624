package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/cart/session"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "CART_BACKEND", "REDIS_CART_TTL", "OTEL_SAMPLE_RATIO", "FREE_SHIPPING_THRESHOLD", "SHIPPING_FEE", "DATABASE_URL", "CART_MAX_SESSIONS"} {
		t.Setenv(k, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8443", cfg.Addr)
	assert.Equal(t, "memory", cfg.Backend)
	assert.Zero(t, cfg.RedisTTL)
	assert.Equal(t, 1.0, cfg.SampleRatio)
	assert.Equal(t, session.DefaultMaxOpen, cfg.MaxSessions)
	assert.True(t, decimal.NewFromInt(1000).Equal(cfg.Shipping.FreeThreshold))
	assert.True(t, decimal.NewFromInt(50).Equal(cfg.Shipping.Fee))
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CART_BACKEND", "redis")
	t.Setenv("REDIS_CART_TTL", "15m")
	t.Setenv("FREE_SHIPPING_THRESHOLD", "250.50")
	t.Setenv("SHIPPING_FEE", "9.99")
	t.Setenv("CART_MAX_SESSIONS", "500")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Backend)
	assert.Equal(t, 15*time.Minute, cfg.RedisTTL)
	assert.Equal(t, 500, cfg.MaxSessions)
	assert.True(t, decimal.RequireFromString("250.5").Equal(cfg.Shipping.FreeThreshold))
	assert.True(t, decimal.RequireFromString("9.99").Equal(cfg.Shipping.Fee))
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown backend":      {"CART_BACKEND": "mongo"},
		"postgres without dsn": {"CART_BACKEND": "postgres", "DATABASE_URL": ""},
		"bad ttl":              {"REDIS_CART_TTL": "soon"},
		"bad shipping fee":     {"SHIPPING_FEE": "free"},
		"bad sample ratio":     {"OTEL_SAMPLE_RATIO": "all"},
		"bad max sessions":     {"CART_MAX_SESSIONS": "many"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("CART_BACKEND", "memory")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}

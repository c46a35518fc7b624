package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"storefront/pkg/cart"
	"storefront/pkg/cart/session"
)

// config is read from the environment; every field has a default.
type config struct {
	Addr        string
	TLSCert     string
	TLSKey      string
	Backend     string
	RedisAddr   string
	RedisPass   string
	RedisTTL    time.Duration
	DatabaseURL string
	OtelHost    string
	SampleRatio float64
	MaxSessions int
	Shipping    cart.ShippingPolicy
}

func loadConfig() (config, error) {
	cfg := config{
		Addr:        getEnv("HTTP_ADDR", ":8443"),
		TLSCert:     getEnv("TLS_CERT", ""),
		TLSKey:      getEnv("TLS_KEY", ""),
		Backend:     getEnv("CART_BACKEND", "memory"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:   getEnv("REDIS_PASSWORD", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		OtelHost:    getEnv("OTEL_HOST", ""),
		Shipping:    cart.DefaultShippingPolicy(),
	}

	var err error
	if cfg.RedisTTL, err = time.ParseDuration(getEnv("REDIS_CART_TTL", "0s")); err != nil {
		return config{}, fmt.Errorf("REDIS_CART_TTL: %w", err)
	}
	if cfg.MaxSessions, err = strconv.Atoi(getEnv("CART_MAX_SESSIONS", strconv.Itoa(session.DefaultMaxOpen))); err != nil {
		return config{}, fmt.Errorf("CART_MAX_SESSIONS: %w", err)
	}
	if cfg.SampleRatio, err = strconv.ParseFloat(getEnv("OTEL_SAMPLE_RATIO", "1.0"), 64); err != nil {
		return config{}, fmt.Errorf("OTEL_SAMPLE_RATIO: %w", err)
	}
	if v := os.Getenv("FREE_SHIPPING_THRESHOLD"); v != "" {
		if cfg.Shipping.FreeThreshold, err = decimal.NewFromString(v); err != nil {
			return config{}, fmt.Errorf("FREE_SHIPPING_THRESHOLD: %w", err)
		}
	}
	if v := os.Getenv("SHIPPING_FEE"); v != "" {
		if cfg.Shipping.Fee, err = decimal.NewFromString(v); err != nil {
			return config{}, fmt.Errorf("SHIPPING_FEE: %w", err)
		}
	}

	switch cfg.Backend {
	case "memory", "redis":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return config{}, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return config{}, fmt.Errorf("unknown CART_BACKEND %q", cfg.Backend)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "storefront/docs"
	"storefront/pkg/api"
	"storefront/pkg/cart"
	"storefront/pkg/cart/memory"
	"storefront/pkg/cart/postgres"
	redisbackend "storefront/pkg/cart/redis"
	"storefront/pkg/cart/session"
	"storefront/pkg/logger"
	"storefront/pkg/otel"
)

// @title Storefront Cart API
// @version 1.0
// @description API for managing shopper carts
// @host localhost:8443
// @BasePath /
func main() {
	log := logger.New(os.Stdout, logger.LevelInfo, "storefront", otel.GetTraceID)
	defer log.Sync()

	if err := run(log); err != nil {
		log.Error(context.Background(), "startup", "error", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "storefront", Host: cfg.OtelHost, Probability: cfg.SampleRatio})
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	newBackend, closeBackend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	sessions := session.NewRegistry(newBackend, log, session.WithMaxOpen(cfg.MaxSessions))
	h := api.New(sessions, cfg.Shipping, log, tp.Tracer("storefront"))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.Addr, "backend", cfg.Backend)
		if cfg.TLSCert != "" {
			errc <- srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
			return
		}
		errc <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-quit:
		log.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "server shutdown", "error", err)
		}
	}
	return nil
}

// openBackend selects the cart persistence backend named in cfg.
func openBackend(ctx context.Context, cfg config, log *logger.Logger) (session.BackendFactory, func(), error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		log.Info(ctx, "redis ping succeeded", "addr", cfg.RedisAddr)
		factory := func(id string) cart.Backend { return redisbackend.New(client, id, cfg.RedisTTL) }
		return factory, func() { client.Close() }, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		factory := func(id string) cart.Backend { return postgres.New(db, id) }
		return factory, func() { db.Close() }, nil

	default:
		log.Warn(ctx, "carts are kept in memory and lost on restart")
		return func(string) cart.Backend { return memory.New() }, func() {}, nil
	}
}

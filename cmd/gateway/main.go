package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/aurelis-storefront/api/routes"
	"github.com/angelmondragon/aurelis-storefront/internal/backend"
	"github.com/angelmondragon/aurelis-storefront/internal/catalog"
	"github.com/angelmondragon/aurelis-storefront/internal/session"
	"github.com/angelmondragon/aurelis-storefront/pkg/config"
	"github.com/angelmondragon/aurelis-storefront/pkg/credentials"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/metrics"
	pkgredis "github.com/angelmondragon/aurelis-storefront/pkg/redis"
	"github.com/angelmondragon/aurelis-storefront/pkg/stripe"
)

const (
	sessionIdleTTL  = 30 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var (
		redisClient      *pkgredis.Client
		idempotencyStore pkgredis.IdempotencyStore
		redisPinger      pkgredis.Pinger
	)
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		idempotencyStore = redisClient
		redisPinger = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency replay disabled")
	}

	processor, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	factory, err := session.NewFactory(cfg, processor, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build session factory", err)
		os.Exit(1)
	}
	sessions, err := session.NewManager(factory, sessionIdleTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to build session manager", err)
		os.Exit(1)
	}

	catalogClient, err := backend.NewClient(cfg.Backend, cfg.Images, credentials.NewMemory(""), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog client", err)
		os.Exit(1)
	}
	catalogService, err := catalog.NewService(catalogClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Backend.BaseURL,
	})
	logg.Info(ctx, "starting storefront gateway")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			sessions,
			catalogService,
			idempotencyStore,
			redisPinger,
			httpMetrics,
			registry,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "gateway stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "gateway stopped cleanly")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/order-resolution-service/internal/api/http"
	"github.com/spec-kit/order-resolution-service/internal/api/http/handlers"
	"github.com/spec-kit/order-resolution-service/internal/config"
	"github.com/spec-kit/order-resolution-service/internal/events"
	"github.com/spec-kit/order-resolution-service/internal/observability"
	"github.com/spec-kit/order-resolution-service/internal/persistence"
	"github.com/spec-kit/order-resolution-service/internal/provider/shopify"
	"github.com/spec-kit/order-resolution-service/internal/repository"
	"github.com/spec-kit/order-resolution-service/internal/service"
	"github.com/spec-kit/order-resolution-service/internal/worker"
	"github.com/spec-kit/order-resolution-service/pkg/clock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	deps := service.ResolutionDependencies{
		Dedup:      redis,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Clock:      clock.NewReal(),
		Logger:     logger,
	}
	if pg.Enabled() {
		deps.ResolutionRepo = repository.NewResolutionRepository(pg.PoolHandle())
	}
	if cfg.Shopify.Enabled() {
		client := shopify.NewClient(cfg.Shopify, logger)
		deps.Orders = client
		deps.Fulfillments = client
	} else {
		logger.Warn("SHOPIFY_SHOP_NAME or SHOPIFY_ACCESS_TOKEN missing; only embedded orders will be matched")
	}
	resolutionService := service.NewResolutionService(cfg.Resolution, deps)

	healthDeps := map[string]handlers.Pinger{"redis": redis}
	if pg.Enabled() {
		healthDeps["postgres"] = pg
	}

	app := httptransport.NewApp(logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, healthDeps),
		Webhooks:    handlers.NewWebhookHandler(resolutionService),
		Resolve:     handlers.NewResolveHandler(clock.NewReal()),
		Resolutions: handlers.NewResolutionsHandler(resolutionService),
		Metrics:     handlers.NewMetricsHandler(metrics),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

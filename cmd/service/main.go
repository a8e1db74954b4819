// Package main is the entry point for the bookstore service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/mapper"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/bookstore-service/internal/app"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/platform/config"
	"github.com/jsamuelsen/bookstore-service/internal/platform/logging"
	"github.com/jsamuelsen/bookstore-service/internal/platform/telemetry"
	"github.com/jsamuelsen/bookstore-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (Prometheus always, OTLP when enabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Application layer over the fixture catalog
	fixtures := app.DefaultFixtures()
	ids := domain.NewKSUIDGenerator()
	catalog := app.NewCatalogService(app.CatalogServiceConfig{Fixtures: fixtures, Logger: logger})
	orders := app.NewOrderService(app.OrderServiceConfig{Fixtures: fixtures, Logger: logger})

	healthRegistry := ports.NewHealthRegistry(ports.DefaultCheckTimeout)
	if err := healthRegistry.Register(ids, catalog, orders); err != nil {
		return fmt.Errorf("registering health checks: %w", err)
	}

	// 6. Handlers
	in := mapper.NewInbound(ids)
	buildInfo := handlers.NewBuildInfo(cfg.App.Name, Version, Commit, BuildTime)
	routerCfg := http.RouterConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Health:      handlers.NewHealthHandler(healthRegistry, buildInfo, telProvider.MetricsHandler()),
		Catalog: handlers.NewCatalogHandler(handlers.CatalogHandlerConfig{
			Service:         catalog,
			Mapper:          in,
			DefaultPageSize: cfg.Catalog.DefaultPageSize,
			MaxPageSize:     cfg.Catalog.MaxPageSize,
		}),
		Orders:  handlers.NewOrderHandler(orders, in),
		Timeout: cfg.Server.RequestTimeout,
	}

	if rl := cfg.Server.RateLimit; rl.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{RPS: rl.RPS, Burst: rl.Burst})
		routerCfg.RateLimiter = limiter

		go limiter.Run(ctx)
	}

	// 7. HTTP server
	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), routerCfg)

	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	// 8. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

//go:build integration

package integration

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/jsamuelsen/bookstore-service/internal/adapters/http"
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

// stackOptions tweaks the in-process service for a test.
type stackOptions struct {
	rateLimit *config.RateLimitConfig
}

// newStack starts the service the way cmd/service wires it, loaded from the
// test profile, behind an httptest server.
func newStack(tb testing.TB, opts stackOptions) *httptest.Server {
	tb.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadFrom("../../configs", "test")
	require.NoError(tb, err)
	require.NoError(tb, cfg.Validate())

	if opts.rateLimit != nil {
		cfg.Server.RateLimit = *opts.rateLimit
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	}, io.Discard)

	tel, err := telemetry.New(context.Background(), &telemetry.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
	})
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	fixtures := app.DefaultFixtures()
	ids := domain.NewKSUIDGenerator()
	catalog := app.NewCatalogService(app.CatalogServiceConfig{Fixtures: fixtures, Logger: logger})
	orders := app.NewOrderService(app.OrderServiceConfig{Fixtures: fixtures, Logger: logger})

	registry := ports.NewHealthRegistry(ports.DefaultCheckTimeout)
	require.NoError(tb, registry.Register(ids, catalog, orders))

	in := mapper.NewInbound(ids)
	routerCfg := httpadapter.RouterConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Health: handlers.NewHealthHandler(registry,
			handlers.NewBuildInfo(cfg.App.Name, "test", "none", "unknown"), tel.MetricsHandler()),
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
		routerCfg.RateLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{RPS: rl.RPS, Burst: rl.Burst})
	}

	server := httpadapter.New(&cfg.Server, logger)
	httpadapter.SetupRouter(server.Engine(), routerCfg)

	ts := httptest.NewServer(server.Handler())
	tb.Cleanup(ts.Close)

	return ts
}

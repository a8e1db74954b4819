package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/bookstore-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// ServiceName names the otelgin tracer. Empty disables tracing middleware.
	ServiceName string

	// Health serves /-/. Nil registers no operational endpoints.
	Health *handlers.HealthHandler

	// Catalog and Orders serve /api/v1.
	Catalog *handlers.CatalogHandler
	Orders  *handlers.OrderHandler

	// RateLimiter, when set, limits /api/v1 per client IP.
	RateLimiter *middleware.RateLimiter

	// Timeout is the request deadline for /api/v1. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware, first to last:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and metrics
//  5. Logging (skips /-/)
//
// /api/v1 adds the rate limiter and the request timeout.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)

	if cfg.ServiceName != "" {
		engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	}

	engine.Use(middleware.Logging())

	if cfg.Health != nil {
		cfg.Health.RegisterHealthRoutes(engine.Group("/-"))
	}

	apiV1 := engine.Group("/api/v1")

	if cfg.RateLimiter != nil {
		apiV1.Use(cfg.RateLimiter.Middleware())
	}

	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.Catalog != nil {
		cfg.Catalog.RegisterCatalogRoutes(apiV1)
	}

	if cfg.Orders != nil {
		cfg.Orders.RegisterOrderRoutes(apiV1)
	}
}

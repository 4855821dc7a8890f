package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quotify-desktop/quotify/internal/adapters/http/handlers"
	"github.com/quotify-desktop/quotify/internal/adapters/http/middleware"
	"github.com/quotify-desktop/quotify/internal/platform/config"
	"github.com/quotify-desktop/quotify/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// QuoteHandler handles quote and favorites endpoints.
	QuoteHandler *handlers.QuoteHandler

	// ConnectivityHandler handles the online/offline flag endpoints.
	ConnectivityHandler *handlers.ConnectivityHandler

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing, metrics, X-Trace-ID header
//  5. Logging - request logging (skips health endpoints)
//  6. Timeout - request deadline on API routes
//
// Route groups:
//   - /-/ (internal): Health endpoints, no user required
//   - /api/v1/ (public API): Quote endpoints, X-User-ID required
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(),
	)

	// Health endpoints stay open: probes carry no user header.
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	// Connectivity describes the device, not a user, so it skips the
	// X-User-ID requirement.
	if cfg.ConnectivityHandler != nil {
		cfg.ConnectivityHandler.RegisterConnectivityRoutes(apiV1)
	}

	userScoped := apiV1.Group("")
	userScoped.Use(middleware.RequireUser())

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(userScoped)
	}
}

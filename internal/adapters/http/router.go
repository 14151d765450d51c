package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/formdesk/internal/adapters/http/handlers"
	"github.com/jsamuelsen/formdesk/internal/adapters/http/middleware"
	"github.com/jsamuelsen/formdesk/internal/platform/config"
	"github.com/jsamuelsen/formdesk/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API calls and page renders when the
// configuration does not.
const DefaultRequestTimeout = 10 * time.Second

// RouterConfig contains everything SetupRouter wires onto the engine.
type RouterConfig struct {
	// Logger seeds every request's context logger.
	Logger *slog.Logger

	// AppConfig names the service for tracing.
	AppConfig *config.AppConfig

	// HealthHandler serves /-/. Optional.
	HealthHandler *handlers.HealthHandler

	// RoutesHandler serves /api/v1. Optional.
	RoutesHandler *handlers.RoutesHandler

	// PageHandler is the history fallback. Optional; without it unmatched
	// requests get gin's plain 404.
	PageHandler *handlers.PageHandler

	// Timeout is the deadline of API and page requests. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures middleware and routes on the engine.
// Middleware is applied in this order:
//  1. Recovery
//  2. Context logger, request ID and correlation ID
//  3. OpenTelemetry tracing, then request metrics
//  4. Logging (skips /-/)
//
// Route groups:
//   - /-/ operational endpoints, no deadline
//   - /api/v1/ the route API
//   - everything else falls through to the page handler
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceName := "formdesk"
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		serviceName = cfg.AppConfig.Name
	}

	engine.Use(
		middleware.Recovery(),
		middleware.ContextLogger(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(serviceName),
		telemetry.Middleware(),
		middleware.Logging(),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(engine.Group("/-"))
	}

	if cfg.RoutesHandler != nil {
		apiV1 := engine.Group("/api/v1", middleware.Timeout(cfg.Timeout))
		cfg.RoutesHandler.RegisterRoutes(apiV1)
	}

	if cfg.PageHandler != nil {
		engine.NoRoute(middleware.Timeout(cfg.Timeout), cfg.PageHandler.Serve)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with the default timeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	health *handlers.HealthHandler,
	routes *handlers.RoutesHandler,
	pages *handlers.PageHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: health,
		RoutesHandler: routes,
		PageHandler:   pages,
		Timeout:       DefaultRequestTimeout,
	}
}

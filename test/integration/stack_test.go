//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/jsamuelsen/formdesk/internal/adapters/http"
	"github.com/jsamuelsen/formdesk/internal/adapters/http/handlers"
	"github.com/jsamuelsen/formdesk/internal/app"
	"github.com/jsamuelsen/formdesk/internal/platform/config"
	"github.com/jsamuelsen/formdesk/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stack is the full HTTP application served on a loopback listener.
type stack struct {
	server *httptest.Server
	svc    *app.Service
	reg    *prometheus.Registry
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStack wires configuration, application and router the same way the
// serve command does. Extra health checks are registered before serving.
func newStack(tb testing.TB, cfg *config.Config, checks ...ports.HealthChecker) *stack {
	tb.Helper()

	require.NoError(tb, cfg.Validate())

	logger := quietLogger()
	reg := prometheus.NewRegistry()

	svc, err := app.NewService(&app.ServiceConfig{
		App:        cfg.App,
		Router:     cfg.Router,
		Assets:     cfg.Assets,
		Registerer: reg,
		Logger:     logger,
	})
	require.NoError(tb, err)

	for _, c := range checks {
		require.NoError(tb, svc.RegisterHealthCheck(c))
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = false

	httpadapter.SetupRouter(engine, httpadapter.NewDefaultRouterConfig(
		logger,
		&cfg.App,
		handlers.NewHealthHandler(svc.Health(), handlers.NewBuildInfo("integration", "0000000", ""), reg),
		handlers.NewRoutesHandler(svc.Router(), svc.Definitions(), svc.Fallback()),
		handlers.NewPageHandler(svc.Shell(), svc.Metrics()),
	))

	server := httptest.NewServer(engine)
	tb.Cleanup(server.Close)

	return &stack{server: server, svc: svc, reg: reg}
}

// defaultConfig loads the built-in defaults.
func defaultConfig(tb testing.TB) *config.Config {
	tb.Helper()

	cfg, err := config.LoadFrom(tb.TempDir(), "")
	require.NoError(tb, err)

	return cfg
}

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/formdesk/internal/app/router"
	"github.com/jsamuelsen/formdesk/internal/app/shell"
	"github.com/jsamuelsen/formdesk/internal/domain"
	"github.com/jsamuelsen/formdesk/internal/pages"
	"github.com/jsamuelsen/formdesk/internal/platform/config"
	"github.com/jsamuelsen/formdesk/internal/ports"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	return cfg
}

func serviceConfig(t *testing.T, cfg *config.Config) (*ServiceConfig, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()

	return &ServiceConfig{
		App:        cfg.App,
		Router:     cfg.Router,
		Assets:     cfg.Assets,
		Info:       pages.Info{Version: "test", Environment: "test"},
		Registerer: reg,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, reg
}

func newTestService(t *testing.T) (*Service, *prometheus.Registry) {
	t.Helper()

	sc, reg := serviceConfig(t, defaultConfig(t))

	svc, err := NewService(sc)
	require.NoError(t, err)

	return svc, reg
}

func TestNewService_Defaults(t *testing.T) {
	svc, _ := newTestService(t)

	routes := svc.Router().Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/", routes[0].Path)
	assert.Equal(t, "Form", routes[0].Name)
	assert.Equal(t, "/admin", routes[1].Path)
	assert.Equal(t, "Admin", routes[1].Name)

	mounted, selector := svc.Shell().Mounted()
	assert.True(t, mounted)
	assert.Equal(t, "#app", selector)

	assert.Equal(t, "page", svc.Fallback())
	assert.Equal(t, pages.DefaultDefinitions(), svc.Definitions())
	assert.Len(t, svc.Shell().Resources(), 3)
	assert.NotNil(t, svc.Catalog())
	assert.NotNil(t, svc.Metrics())
}

func TestNewService_NilConfig(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err)
}

func TestNewService_RejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		check  func(t *testing.T, err error)
	}{
		{
			name: "unknown page key",
			mutate: func(c *config.Config) {
				c.Router.Routes = append(c.Router.Routes, config.RouteConfig{Path: "/help", Page: "help"})
			},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsNotFound(err))
			},
		},
		{
			name: "duplicate path",
			mutate: func(c *config.Config) {
				c.Router.Routes = append(c.Router.Routes, config.RouteConfig{Path: "/admin", Page: "form"})
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, router.ErrInvalidRouteTable)
			},
		},
		{
			name: "duplicate name",
			mutate: func(c *config.Config) {
				c.Router.Routes = append(c.Router.Routes, config.RouteConfig{Path: "/other", Name: "Form", Page: "form"})
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, router.ErrInvalidRouteTable)
			},
		},
		{
			name: "mount point not in document",
			mutate: func(c *config.Config) {
				c.App.MountPoint = "#root"
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, shell.ErrMountPointMissing)
			},
		},
		{
			name: "unknown fallback",
			mutate: func(c *config.Config) {
				c.Router.Fallback = "redirect"
			},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
		{
			name: "missing host document",
			mutate: func(c *config.Config) {
				c.App.DocumentPath = filepath.Join(os.TempDir(), "formdesk-does-not-exist.html")
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, os.ErrNotExist)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)

			sc, _ := serviceConfig(t, cfg)

			_, err := NewService(sc)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNewService_CustomDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(
		`<!DOCTYPE html><html><head><title>x</title></head><body><header>top</header><section id="root"></section></body></html>`,
	), 0o600))

	cfg := defaultConfig(t)
	cfg.App.DocumentPath = path
	cfg.App.MountPoint = "#root"
	cfg.App.Title = "Requests"

	sc, _ := serviceConfig(t, cfg)

	svc, err := NewService(sc)
	require.NoError(t, err)

	rendered, err := svc.Render(context.Background(), "/")
	require.NoError(t, err)
	assert.Contains(t, rendered.HTML, "<header>top</header>")
	assert.Contains(t, rendered.HTML, "<title>Requests</title>")
	assert.Contains(t, rendered.HTML, `id="request-form"`)
}

func TestService_Render(t *testing.T) {
	svc, reg := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		location string
		status   int
		route    string
		contains string
	}{
		{location: "/", status: http.StatusOK, route: "Form", contains: `id="request-form"`},
		{location: "/admin", status: http.StatusOK, route: "Admin", contains: "<code>/admin</code>"},
		{location: "/ADMIN/", status: http.StatusOK, route: "Admin", contains: "<code>/admin</code>"},
		{location: "/missing", status: http.StatusNotFound, route: "", contains: `id="not-found"`},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			rendered, err := svc.Render(ctx, tt.location)
			require.NoError(t, err)

			assert.Equal(t, tt.status, rendered.Status)
			assert.Equal(t, tt.route, rendered.Route)
			assert.Contains(t, rendered.HTML, tt.contains)
			assert.Contains(t, rendered.HTML, config.BootstrapStylesheetURL)
		})
	}

	assert.Equal(t, 3, testutil.CollectAndCount(reg, "formdesk_navigations_total"))
}

// routeLabels returns the route label of every series of a metric family.
func routeLabels(t *testing.T, reg *prometheus.Registry, family string) []string {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	var labels []string
	for _, f := range families {
		if f.GetName() != family {
			continue
		}

		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" {
					labels = append(labels, l.GetValue())
				}
			}
		}
	}

	return labels
}

func TestService_UnnamedRoutesAreLabelledByPattern(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Router.Routes = append(cfg.Router.Routes, config.RouteConfig{Path: "/help", Page: "form"})

	sc, reg := serviceConfig(t, cfg)

	svc, err := NewService(sc)
	require.NoError(t, err)

	for _, loc := range []string{"/help", "/missing"} {
		_, err := svc.Render(context.Background(), loc)
		require.NoError(t, err)
	}

	for _, family := range []string{"formdesk_navigations_total", "formdesk_render_duration_seconds"} {
		assert.ElementsMatch(t, []string{"/help", "none"}, routeLabels(t, reg, family), family)
	}
}

func TestService_RenderEmptyFallback(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Router.Fallback = "empty"

	sc, _ := serviceConfig(t, cfg)

	svc, err := NewService(sc)
	require.NoError(t, err)

	rendered, err := svc.Render(context.Background(), "/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rendered.Status)
	assert.NotContains(t, rendered.HTML, `id="not-found"`)
	assert.Contains(t, rendered.HTML, `id="outlet"`)
}

func TestService_RenderAllKeepsOrder(t *testing.T) {
	svc, _ := newTestService(t)

	rendered, err := svc.RenderAll(context.Background(), "/admin", "/nope", "/")
	require.NoError(t, err)
	require.Len(t, rendered, 3)

	assert.Equal(t, "Admin", rendered[0].Route)
	assert.Equal(t, http.StatusNotFound, rendered[1].Status)
	assert.Equal(t, "Form", rendered[2].Route)
}

func TestService_RenderCanceled(t *testing.T) {
	svc, _ := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.RenderAll(ctx, "/")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_StaticLocations(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Router.Routes = append(cfg.Router.Routes,
		config.RouteConfig{Path: "/requests/:id", Name: "Request", Page: "form"},
		config.RouteConfig{Path: "/files/*rest", Page: "form"},
	)

	sc, _ := serviceConfig(t, cfg)

	svc, err := NewService(sc)
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/admin"}, svc.StaticLocations())
}

func TestService_Health(t *testing.T) {
	svc, reg := newTestService(t)

	result := svc.Health().CheckAll(context.Background())

	assert.Equal(t, ports.HealthStatusHealthy, result.Status)
	for _, name := range []string{"router", "shell", "pages"} {
		require.Contains(t, result.Checks, name)
		assert.Equal(t, ports.HealthStatusHealthy, result.Checks[name].Status, name)
	}

	assert.Equal(t, 0, testutil.CollectAndCount(reg, "formdesk_navigations_total"),
		"readiness renders are not counted as navigations")
}

type optionalCheck struct {
	err error
}

func (c optionalCheck) Name() string                { return "assets" }
func (c optionalCheck) Check(context.Context) error { return c.err }
func (c optionalCheck) Optional() bool              { return true }

func TestService_RegisterHealthCheck(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.RegisterHealthCheck(optionalCheck{err: errors.New("cdn down")}))

	result := svc.Health().CheckAll(context.Background())
	assert.Equal(t, ports.HealthStatusDegraded, result.Status)
	assert.True(t, result.Status.Ready())

	err := svc.RegisterHealthCheck(optionalCheck{})
	assert.ErrorIs(t, err, ports.ErrDuplicateChecker)
}

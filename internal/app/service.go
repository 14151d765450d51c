// Package app assembles the application: the page catalog, the router built
// from the configured route table, the mounted shell and the health checks
// that report whether it can serve.
//
// Application Layer Responsibilities:
//   - Build the route table from configuration and reject it eagerly
//   - Mount the shell exactly once, with the global presentation resources
//   - Run navigations in their own session and render the result
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Route matching (that's app/router)
//   - Page markup (that's pages)
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/formdesk/internal/app/router"
	"github.com/jsamuelsen/formdesk/internal/app/shell"
	"github.com/jsamuelsen/formdesk/internal/pages"
	"github.com/jsamuelsen/formdesk/internal/platform/concurrency"
	"github.com/jsamuelsen/formdesk/internal/platform/config"
	"github.com/jsamuelsen/formdesk/internal/platform/logging"
	"github.com/jsamuelsen/formdesk/internal/platform/telemetry"
	"github.com/jsamuelsen/formdesk/internal/ports"
)

// DefaultRenderConcurrency bounds the renders run by RenderAll.
const DefaultRenderConcurrency = 4

// Service owns the mounted shell and everything it was built from.
//
// Example usage:
//
//	svc, err := app.NewService(&app.ServiceConfig{
//	    App:    cfg.App,
//	    Router: cfg.Router,
//	    Assets: cfg.Assets,
//	    Logger: logger,
//	})
//
//	// In a handler or command
//	rendered, err := svc.Render(ctx, "/admin")
type Service struct {
	catalog  *pages.Catalog
	defs     []pages.Definition
	router   *router.Router
	shell    *shell.Shell
	metrics  *telemetry.NavigationMetrics
	health   *ports.DefaultHealthRegistry
	fallback shell.Fallback
	logger   *slog.Logger
}

// ServiceConfig holds the configuration sections the service is built from.
type ServiceConfig struct {
	App    config.AppConfig
	Router config.RouterConfig
	Assets config.AssetsConfig

	// Info is shown on the Admin page.
	Info pages.Info

	// Registerer receives the navigation metrics. Defaults to
	// prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer

	Logger *slog.Logger
}

// NewService builds the route table, creates and mounts the shell and
// registers the required health checks. Any configuration error is returned
// here: a service that was created is ready to render.
func NewService(cfg *ServiceConfig) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("service config is required")
	}

	logger := slog.Default()
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	catalog := pages.NewCatalog(cfg.Info)

	defs := definitions(cfg.Router.Routes)

	routes, err := catalog.Routes(defs)
	if err != nil {
		return nil, fmt.Errorf("binding route table: %w", err)
	}

	r, err := router.New(routes...)
	if err != nil {
		return nil, fmt.Errorf("building router: %w", err)
	}

	doc, err := shell.LoadDocument(cfg.App.DocumentPath)
	if err != nil {
		return nil, err
	}

	metrics, err := telemetry.NewNavigationMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("registering navigation metrics: %w", err)
	}

	notFound, err := catalog.Page(pages.KeyNotFound)
	if err != nil {
		return nil, err
	}

	s, err := shell.New(shell.Config{
		Router:   r,
		Document: doc,
		Root:     pages.NewApp(cfg.App.Title, r),
		NotFound: notFound,
		Fallback: shell.Fallback(cfg.Router.Fallback),
		Title:    cfg.App.Title,
		Observer: metrics,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating shell: %w", err)
	}

	if err := s.Use(shell.Resources(Resources(cfg.Assets)...)); err != nil {
		return nil, fmt.Errorf("installing resources: %w", err)
	}

	if err := s.Mount(cfg.App.MountPoint); err != nil {
		return nil, fmt.Errorf("mounting shell: %w", err)
	}

	svc := &Service{
		catalog:  catalog,
		defs:     defs,
		router:   r,
		shell:    s,
		metrics:  metrics,
		health:   ports.NewHealthRegistry(),
		fallback: shell.Fallback(cfg.Router.Fallback),
		logger:   logger.With(slog.String("component", "app.Service")),
	}

	for _, c := range []ports.HealthChecker{
		ports.NewCheckFunc("router", svc.checkRouter),
		ports.NewCheckFunc("shell", svc.checkShell),
		ports.NewCheckFunc("pages", svc.checkPages),
	} {
		if err := svc.health.Register(c); err != nil {
			return nil, err
		}
	}

	svc.logger.Info("application assembled",
		slog.Int("routes", len(defs)),
		slog.String("fallback", cfg.Router.Fallback),
		slog.String(logging.KeyMountPoint, cfg.App.MountPoint),
	)

	return svc, nil
}

func definitions(routes []config.RouteConfig) []pages.Definition {
	defs := make([]pages.Definition, 0, len(routes))
	for _, rc := range routes {
		defs = append(defs, pages.Definition{Path: rc.Path, Name: rc.Name, Page: rc.Page})
	}

	return defs
}

// Resources converts the configured assets, stylesheets first.
func Resources(cfg config.AssetsConfig) []shell.Resource {
	out := make([]shell.Resource, 0, len(cfg.Stylesheets)+len(cfg.Scripts))

	for _, a := range cfg.Stylesheets {
		out = append(out, shell.Resource{Kind: shell.Stylesheet, URL: a.URL, Name: a.Name})
	}

	for _, a := range cfg.Scripts {
		out = append(out, shell.Resource{Kind: shell.Script, URL: a.URL, Name: a.Name})
	}

	return out
}

// Router returns the route table.
func (s *Service) Router() *router.Router { return s.router }

// Shell returns the mounted shell.
func (s *Service) Shell() *shell.Shell { return s.shell }

// Catalog returns the page catalog.
func (s *Service) Catalog() *pages.Catalog { return s.catalog }

// Definitions returns the route definitions in declaration order.
func (s *Service) Definitions() []pages.Definition {
	return append([]pages.Definition(nil), s.defs...)
}

// Fallback returns the not found policy in effect.
func (s *Service) Fallback() string { return string(s.fallback) }

// Metrics returns the navigation metrics, which also observe the HTTP
// page handler's navigations.
func (s *Service) Metrics() *telemetry.NavigationMetrics { return s.metrics }

// Health returns the readiness registry.
func (s *Service) Health() ports.HealthRegistry { return s.health }

// RegisterHealthCheck adds a check to the readiness registry.
func (s *Service) RegisterHealthCheck(c ports.HealthChecker) error {
	return s.health.Register(c)
}

// Render navigates to location in a fresh session and renders the shell
// document. An unmatched location is not an error: the result carries a
// 404 status.
func (s *Service) Render(ctx context.Context, location string) (*shell.Rendered, error) {
	return s.render(ctx, location, true)
}

// render is Render with the navigation counter optional, so that readiness
// probes do not show up as traffic.
func (s *Service) render(ctx context.Context, location string, observe bool) (*shell.Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nav := s.router.NewNavigator()
	if observe {
		nav.AfterEach(func(n router.Navigation) {
			s.metrics.ObserveNavigation(n.RouteLabel(), n.NotFound())
		})
	}

	n, err := nav.Push(ctx, location)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithRoute(ctx, n.RouteLabel(), location)

	rendered, err := s.shell.Render(ctx, n)
	if err != nil {
		logging.FromContext(ctx).Error("rendering page failed", slog.Any("error", err))

		return nil, err
	}

	return rendered, nil
}

// RenderAll renders each location in its own session, concurrently. Results
// keep the order of locations; the first error cancels the rest.
func (s *Service) RenderAll(ctx context.Context, locations ...string) ([]*shell.Rendered, error) {
	return s.renderAll(ctx, true, locations)
}

func (s *Service) renderAll(ctx context.Context, observe bool, locations []string) ([]*shell.Rendered, error) {
	fns := make([]func(context.Context) (*shell.Rendered, error), 0, len(locations))
	for _, loc := range locations {
		fns = append(fns, func(ctx context.Context) (*shell.Rendered, error) {
			rendered, err := s.render(ctx, loc, observe)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", loc, err)
			}

			return rendered, nil
		})
	}

	return concurrency.ParallelLimit(ctx, DefaultRenderConcurrency, fns...)
}

// StaticLocations returns the paths of the routes that take no parameters.
func (s *Service) StaticLocations() []string {
	var out []string

	for _, r := range s.router.Routes() {
		if strings.Contains(r.Path, "/:") || strings.Contains(r.Path, "/*") {
			continue
		}
		out = append(out, r.Path)
	}

	return out
}

func (s *Service) checkRouter(_ context.Context) error {
	if len(s.router.Routes()) == 0 {
		return errors.New("route table is empty")
	}

	return nil
}

func (s *Service) checkShell(_ context.Context) error {
	if mounted, _ := s.shell.Mounted(); !mounted {
		return shell.ErrNotMounted
	}

	return nil
}

func (s *Service) checkPages(ctx context.Context) error {
	locations := s.StaticLocations()

	rendered, err := s.renderAll(ctx, false, locations)
	if err != nil {
		return err
	}

	for i, r := range rendered {
		if r.Status != http.StatusOK {
			return fmt.Errorf("%s: rendered with status %d", locations[i], r.Status)
		}
	}

	return nil
}

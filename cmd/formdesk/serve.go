package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/formdesk/internal/adapters/clients"
	"github.com/jsamuelsen/formdesk/internal/adapters/http"
	"github.com/jsamuelsen/formdesk/internal/adapters/http/handlers"
	"github.com/jsamuelsen/formdesk/internal/app"
	"github.com/jsamuelsen/formdesk/internal/platform/config"
	"github.com/jsamuelsen/formdesk/internal/platform/telemetry"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the application shell and the route API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
}

func serve(ctx context.Context, opts *globalOptions) error {
	// 1. Load and validate configuration (fail fast)
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// 2. Initialize logging
	logger := newLogger(cfg, os.Stdout)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("profile", opts.profile),
	)

	// 3. Initialize telemetry (noop if disabled)
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
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 4. Build the route table and mount the shell
	svc, err := newService(cfg, logger, nil)
	if err != nil {
		return err
	}

	// 5. Probe the presentation resources in readiness, when enabled
	if cfg.Assets.Probe.Enabled {
		if err := registerAssetProbe(svc, cfg, logger); err != nil {
			return err
		}
	}

	// 6. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	buildInfo.Environment = cfg.App.Environment

	healthHandler := handlers.NewHealthHandler(svc.Health(), buildInfo, nil)
	routesHandler := handlers.NewRoutesHandler(svc.Router(), svc.Definitions(), svc.Fallback())
	pageHandler := handlers.NewPageHandler(svc.Shell(), svc.Metrics())

	// 7. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 8. Setup router with all middleware and routes
	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, healthHandler, routesHandler, pageHandler)
	if cfg.Server.RequestTimeout > 0 {
		routerCfg.Timeout = cfg.Server.RequestTimeout
	}
	http.SetupRouter(server.Engine(), routerCfg)

	// 9. Start server (non-blocking)
	serverErr := server.Start()

	// 10. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

func registerAssetProbe(svc *app.Service, cfg *config.Config, logger *slog.Logger) error {
	client, err := clients.New(&clients.Config{
		ServiceName: "assets",
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating asset client: %w", err)
	}

	resources := app.Resources(cfg.Assets)
	urls := make([]string, 0, len(resources))
	for _, r := range resources {
		urls = append(urls, r.URL)
	}

	if err := svc.RegisterHealthCheck(clients.NewAssetChecker(client, urls, logger)); err != nil {
		return fmt.Errorf("registering asset health check: %w", err)
	}

	return nil
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
	case err, ok := <-serverErr:
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}

		return nil

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))

	case <-ctx.Done():
		logger.Info("context canceled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

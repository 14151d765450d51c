package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/formdesk/internal/app"
	"github.com/jsamuelsen/formdesk/internal/pages"
	"github.com/jsamuelsen/formdesk/internal/platform/config"
	"github.com/jsamuelsen/formdesk/internal/platform/logging"
)

type globalOptions struct {
	profile   string
	configDir string
}

// loadConfig loads and validates the configuration, failing fast.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.LoadFrom(opts.configDir, opts.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := logging.NewWithWriter(&logging.Config{
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
	}, w)
	logging.SetDefault(logger)

	return logger
}

// newService assembles the application. reg may be nil for the default
// Prometheus registry.
func newService(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*app.Service, error) {
	svc, err := app.NewService(&app.ServiceConfig{
		App:    cfg.App,
		Router: cfg.Router,
		Assets: cfg.Assets,
		Info: pages.Info{
			Version:     Version,
			Commit:      Commit,
			BuildTime:   BuildTime,
			Environment: cfg.App.Environment,
		},
		Registerer: reg,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("assembling application: %w", err)
	}

	return svc, nil
}

package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/formdesk/internal/platform/concurrency"
)

// AssetChecker probes the reachability of the shell's presentation
// resources. It is an optional health check: unreachable assets degrade the
// pages' styling but the shell still serves.
type AssetChecker struct {
	client *Client
	urls   []string
	logger *slog.Logger
}

// NewAssetChecker returns a checker probing urls with client.
func NewAssetChecker(client *Client, urls []string, logger *slog.Logger) *AssetChecker {
	if logger == nil {
		logger = slog.Default()
	}

	return &AssetChecker{
		client: client,
		urls:   append([]string(nil), urls...),
		logger: logger.With(slog.String("component", "clients.AssetChecker")),
	}
}

// Name implements ports.HealthChecker.
func (a *AssetChecker) Name() string { return "assets" }

// Optional implements ports.Optional.
func (a *AssetChecker) Optional() bool { return true }

// Check probes every asset concurrently and joins the failures.
func (a *AssetChecker) Check(ctx context.Context) error {
	probes := make([]func(context.Context) (string, error), 0, len(a.urls))
	for _, u := range a.urls {
		probes = append(probes, func(ctx context.Context) (string, error) {
			return u, a.probe(ctx, u)
		})
	}

	var errs []error

	for _, r := range concurrency.ParallelPartial(ctx, probes...) {
		if r.Err != nil {
			a.logger.WarnContext(ctx, "asset unreachable", slog.String("url", r.Value), slog.Any("error", r.Err))
			errs = append(errs, r.Err)
		}
	}

	return errors.Join(errs...)
}

// probe issues a HEAD request, falling back to GET for servers that refuse
// HEAD.
func (a *AssetChecker) probe(ctx context.Context, u string) error {
	resp, err := a.client.Head(ctx, u)
	if err != nil {
		return fmt.Errorf("%s: %w", u, err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode == http.StatusMethodNotAllowed {
		resp, err = a.client.Get(ctx, u)
		if err != nil {
			return fmt.Errorf("%s: %w", u, err)
		}
		_ = resp.Body.Close()
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: %w: %d", u, ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}

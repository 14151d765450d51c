package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Attribute keys formdesk records carry. Handlers and middleware use these
// instead of string literals so dashboards can rely on them.
const (
	KeyRequestID     = "request_id"
	KeyCorrelationID = "correlation_id"
	KeyRoute         = "route"
	KeyLocation      = "location"
	KeyMountPoint    = "mount_point"
)

type ctxKey struct{}

// defaultLogger is nil until SetDefault runs.
var defaultLogger atomic.Pointer[slog.Logger]

// FromContext returns the logger stored in ctx, or the process default when
// ctx is nil or carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}

	return slog.Default()
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// With returns a context whose logger carries attrs on every record.
func With(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}

	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}

	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithRequestID tags the context logger with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return With(ctx, slog.String(KeyRequestID, requestID))
}

// WithCorrelationID tags the context logger with the correlation ID.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return With(ctx, slog.String(KeyCorrelationID, correlationID))
}

// WithRoute tags the context logger with the route a navigation resolved to
// and the location it was asked for. The location is redacted before it is
// attached. An empty route is recorded as "none".
func WithRoute(ctx context.Context, route, location string) context.Context {
	if route == "" {
		route = "none"
	}

	return With(ctx,
		slog.String(KeyRoute, route),
		slog.String(KeyLocation, RedactLocation(location)),
	)
}

// SetDefault sets the logger FromContext falls back to and installs it as
// the slog default.
func SetDefault(logger *slog.Logger) {
	defaultLogger.Store(logger)
	slog.SetDefault(logger)
}

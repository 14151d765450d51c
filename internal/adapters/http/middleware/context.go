package middleware

import "context"

// RequestTrace holds the identifiers a page request carries from the ID
// middleware to the outbound asset client.
type RequestTrace struct {
	RequestID     string
	CorrelationID string
}

type traceKey struct{}

// TraceFromContext returns the identifiers stored in ctx. Missing ones are
// empty.
func TraceFromContext(ctx context.Context) RequestTrace {
	if ctx == nil {
		return RequestTrace{}
	}

	tr, _ := ctx.Value(traceKey{}).(RequestTrace)

	return tr
}

// RequestIDFromContext extracts the request ID from ctx.
func RequestIDFromContext(ctx context.Context) string {
	return TraceFromContext(ctx).RequestID
}

// CorrelationIDFromContext extracts the correlation ID from ctx.
func CorrelationIDFromContext(ctx context.Context) string {
	return TraceFromContext(ctx).CorrelationID
}

// ContextWithRequestID stores a request ID in ctx, keeping any correlation
// ID already there.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	tr := TraceFromContext(ctx)
	tr.RequestID = id

	return context.WithValue(ctx, traceKey{}, tr)
}

// ContextWithCorrelationID stores a correlation ID in ctx, keeping any
// request ID already there.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	tr := TraceFromContext(ctx)
	tr.CorrelationID = id

	return context.WithValue(ctx, traceKey{}, tr)
}

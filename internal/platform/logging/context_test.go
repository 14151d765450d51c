package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return NewWithWriter(&Config{Level: "debug", Format: "json", Service: "formdesk"}, buf)
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	assert.NotNil(t, FromContext(nil))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := WithContext(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestSetDefault(t *testing.T) {
	prev := FromContext(context.Background())
	prevSlog := slog.Default()
	t.Cleanup(func() {
		SetDefault(prev)
		slog.SetDefault(prevSlog)
	})

	var buf bytes.Buffer
	logger := jsonLogger(&buf)
	SetDefault(logger)

	assert.Same(t, logger, FromContext(context.Background()))
	assert.Same(t, logger, slog.Default())
}

func TestWith_NoAttrsKeepsContext(t *testing.T) {
	ctx := WithContext(context.Background(), slog.New(slog.DiscardHandler))

	assert.Equal(t, ctx, With(ctx))
}

func TestWithRoute(t *testing.T) {
	tests := []struct {
		name         string
		route        string
		location     string
		wantRoute    string
		wantLocation string
	}{
		{"named route", "Admin", "/admin", "Admin", "/admin"},
		{"unnamed route labelled by pattern", "/files/*rest", "/files/a/b", "/files/*rest", "/files/a/b"},
		{"unmatched location", "", "/nowhere", "none", "/nowhere"},
		{"token in query", "Form", "/?token=s3cr3t&step=2", "Form", "/?token=[REDACTED]&step=2"},
		{"token in fragment", "Form", "/#access_token=s3cr3t&state=xyz", "Form", "/#access_token=[REDACTED]&state=[REDACTED]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := WithContext(context.Background(), jsonLogger(&buf))

			ctx = WithRoute(ctx, tt.route, tt.location)
			FromContext(ctx).Info("page rendered")

			records := decodeLines(t, buf.String())
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantRoute, records[0][KeyRoute])
			assert.Equal(t, tt.wantLocation, records[0][KeyLocation])
		})
	}
}

func TestWithRoute_PrettyOutputIsRedactedToo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "info", Format: "pretty"}, &buf)
	ctx := WithContext(context.Background(), logger)

	FromContext(WithRoute(ctx, "Admin", "/admin?api_key=k-123")).Info("page rendered")

	assert.NotContains(t, buf.String(), "k-123")
	assert.Contains(t, buf.String(), "Admin")
}

func TestIDsAndRouteAccumulate(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), jsonLogger(&buf))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithCorrelationID(ctx, "corr-1")
	ctx = WithRoute(ctx, "Admin", "/admin")

	FromContext(ctx).Warn("rendering page failed")

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "req-1", rec[KeyRequestID])
	assert.Equal(t, "corr-1", rec[KeyCorrelationID])
	assert.Equal(t, "Admin", rec[KeyRoute])
	assert.Equal(t, "/admin", rec[KeyLocation])
	assert.Equal(t, "WARN", rec["level"])
}

func TestWithRoute_DoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer
	parent := WithContext(context.Background(), jsonLogger(&buf))

	_ = WithRoute(parent, "Admin", "/admin")
	FromContext(parent).Info("request started")

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	assert.NotContains(t, records[0], KeyRoute)
}

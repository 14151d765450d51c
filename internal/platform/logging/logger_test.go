package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeLines parses JSON log output into one map per record.
func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}

		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		records = append(records, rec)
	}

	return records
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New(&Config{Level: "info", Format: "json", Service: "formdesk"}))
}

func TestNewWithWriter_JSONCarriesServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "info", Format: "json", Service: "formdesk", Version: "1.4.0"}, &buf)

	logger.Info("shell mounted", slog.String(KeyMountPoint, "#app"))

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	assert.Equal(t, "shell mounted", records[0]["msg"])
	assert.Equal(t, "formdesk", records[0]["service_name"])
	assert.Equal(t, "1.4.0", records[0]["service_version"])
	assert.Equal(t, "#app", records[0][KeyMountPoint])
}

func TestNewWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "debug", Format: "text", Service: "formdesk"}, &buf)

	logger.Debug("route table loaded", slog.Int("routes", 2))

	out := buf.String()
	assert.Contains(t, out, "route table loaded")
	assert.Contains(t, out, "routes=2")
	assert.Contains(t, out, "service_name=formdesk")
}

func TestNewWithWriter_PrettyFormatFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "warn", Format: "pretty", Service: "formdesk"}, &buf)

	logger.Info("shell mounted")
	logger.Warn("asset unreachable", slog.String("url", "https://cdn.example/app.css"))

	out := buf.String()
	assert.NotContains(t, out, "shell mounted")
	assert.Contains(t, out, "asset unreachable")
	assert.Contains(t, out, "https://cdn.example/app.css")
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "trace", Format: "json"}, &buf)

	logger.Log(context.Background(), LevelTrace, "navigation resolved")
	assert.Contains(t, buf.String(), "navigation resolved")
}

func TestNewWithWriter_FileSinkGetsRedactedJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "formdesk.log")

	var buf bytes.Buffer
	logger := NewWithWriter(&Config{
		Level:   "info",
		Format:  "pretty",
		Service: "formdesk",
		File: FileConfig{
			Enabled:    true,
			Path:       logFile,
			MaxSizeMB:  1,
			MaxBackups: 1,
			MaxAgeDays: 1,
		},
	}, &buf)

	logger.Info("page rendered", slog.String(KeyLocation, "/admin?token=abc123"))

	assert.Contains(t, buf.String(), "page rendered")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	records := decodeLines(t, string(content))
	require.Len(t, records, 1)
	assert.Equal(t, "/admin?token=[REDACTED]", records[0][KeyLocation])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range cases {
		t.Run("level "+input, func(t *testing.T) {
			assert.Equal(t, want, parseLevel(input))
		})
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	cases := []struct {
		in   slog.Level
		want log.Level
	}{
		{slog.Level(-12), log.DebugLevel},
		{LevelTrace, log.DebugLevel},
		{slog.LevelDebug, log.DebugLevel},
		{slog.LevelInfo, log.InfoLevel},
		{slog.LevelWarn, log.WarnLevel},
		{slog.LevelError, log.ErrorLevel},
		{slog.Level(12), log.ErrorLevel},
	}

	for _, tc := range cases {
		t.Run(tc.in.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, slogToCharmLevel(tc.in))
		})
	}
}

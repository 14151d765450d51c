package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/formdesk/internal/platform/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serverConfig(host string, port int) *config.ServerConfig {
	return &config.ServerConfig{
		Host:           host,
		Port:           port,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
}

func TestServerNew(t *testing.T) {
	cfg := serverConfig("127.0.0.1", 8080)
	logger := quietLogger()

	srv := New(cfg, logger)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.httpServer)
	assert.Same(t, cfg, srv.Config())
	assert.Equal(t, logger, srv.logger)
	assert.IsType(t, &gin.Engine{}, srv.Engine())
	assert.False(t, srv.Engine().RedirectTrailingSlash)
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host         string
		port         int
		expectedAddr string
	}{
		{"localhost", 8080, "localhost:8080"},
		{"0.0.0.0", 3000, "0.0.0.0:3000"},
		{"127.0.0.1", 0, "127.0.0.1:0"},
	}

	for _, tt := range tests {
		t.Run(tt.expectedAddr, func(t *testing.T) {
			srv := New(serverConfig(tt.host, tt.port), quietLogger())
			assert.Equal(t, tt.expectedAddr, srv.Addr())
		})
	}
}

func TestServerStartShutdown(t *testing.T) {
	srv := New(serverConfig("127.0.0.1", 0), quietLogger())

	errCh := srv.Start()

	// Give the server time to start.
	time.Sleep(100 * time.Millisecond)

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("server start error: %v", err)
		}
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	select {
	case _, ok := <-errCh:
		assert.False(t, ok, "error channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for server to shut down")
	}
}

func TestServerStartFailure(t *testing.T) {
	srv := New(serverConfig("127.0.0.1", -1), quietLogger())

	select {
	case err := <-srv.Start():
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http server error")
	case <-time.After(2 * time.Second):
		t.Fatal("expected a listen error")
	}
}

func TestMaxBodySizeMiddleware(t *testing.T) {
	cfg := serverConfig("127.0.0.1", 0)
	cfg.MaxRequestSize = 100

	srv := New(cfg, quietLogger())
	srv.Engine().POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": len(body)})
	})

	t.Run("body under limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("a", 50))))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received":50}`, w.Body.String())
	})

	t.Run("body over limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("a", 200))))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

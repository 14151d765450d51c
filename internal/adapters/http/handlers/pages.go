package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/formdesk/internal/adapters/http/dto"
	"github.com/jsamuelsen/formdesk/internal/adapters/http/middleware"
	"github.com/jsamuelsen/formdesk/internal/app/router"
	"github.com/jsamuelsen/formdesk/internal/app/shell"
	"github.com/jsamuelsen/formdesk/internal/platform/logging"
)

// NavigationObserver receives the outcome of each served navigation.
type NavigationObserver interface {
	ObserveNavigation(route string, notFound bool)
}

// PageHandler is the history fallback: every GET or HEAD that no other
// route claims is navigated to in a fresh session and answered with the
// rendered shell document.
type PageHandler struct {
	shell    *shell.Shell
	observer NavigationObserver
}

// NewPageHandler creates the fallback handler. observer may be nil.
func NewPageHandler(s *shell.Shell, observer NavigationObserver) *PageHandler {
	return &PageHandler{shell: s, observer: observer}
}

// Serve handles the fallback request.
func (h *PageHandler) Serve(c *gin.Context) {
	if !middleware.IsPageRequest(c.Request) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeNotFound, "no such endpoint").
			WithTraceID(dto.GetTraceID(c)))

		return
	}

	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Header("Allow", "GET, HEAD")
		c.Status(http.StatusMethodNotAllowed)

		return
	}

	ctx := c.Request.Context()

	nav := h.shell.Router().NewNavigator()
	if h.observer != nil {
		nav.AfterEach(func(n router.Navigation) {
			h.observer.ObserveNavigation(n.RouteLabel(), n.NotFound())
		})
	}

	n, err := nav.Push(ctx, c.Request.URL.RequestURI())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Set(middleware.ContextKeyRouteName, n.RouteLabel())
	ctx = logging.WithRoute(ctx, n.RouteLabel(), n.To)

	rendered, err := h.shell.Render(ctx, n)
	if err != nil {
		logging.FromContext(ctx).Error("rendering page failed", slog.Any("error", err))
		c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("internal error\n"))

		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(rendered.Status, "text/html; charset=utf-8", []byte(rendered.HTML))
}

package middleware

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/formdesk/internal/adapters/http/dto"
	"github.com/jsamuelsen/formdesk/internal/platform/logging"
)

const errorDocument = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body><main class="container"><h1>%s</h1><p>%s</p></main></body>
</html>
`

// Recovery returns middleware that recovers from panics, logs the stack
// with the request's IDs, and answers 500. Page requests get an HTML error
// document; API and operational endpoints get the JSON error envelope.
// It must be first in the chain.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			traceID := traceIDFrom(c)

			logging.FromContext(c.Request.Context()).Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.String("trace_id", traceID),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			if IsPageRequest(c.Request) {
				abortWithDocument(c, http.StatusInternalServerError, "Something went wrong", traceID)
				return
			}

			errResp := dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred")
			errResp.TraceID = traceID
			c.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
		}()

		c.Next()
	}
}

// IsPageRequest reports whether r targets the document-serving fallback
// rather than the JSON API or the operational /-/ endpoints.
func IsPageRequest(r *http.Request) bool {
	p := r.URL.Path

	return !strings.HasPrefix(p, "/api/") && p != "/api" && !strings.HasPrefix(p, "/-/")
}

func abortWithDocument(c *gin.Context, status int, heading, traceID string) {
	detail := "Please try again."
	if traceID != "" {
		detail = "Reference: " + traceID
	}

	title := http.StatusText(status)
	body := fmt.Sprintf(errorDocument, html.EscapeString(title), html.EscapeString(heading), html.EscapeString(detail))

	c.Data(status, "text/html; charset=utf-8", []byte(body))
	c.Abort()
}

func traceIDFrom(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/formdesk/internal/domain"
	"github.com/jsamuelsen/formdesk/internal/platform/logging"
)

// MapDomainError maps a domain error to an HTTP status and error envelope.
// Unknown errors become 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var resp *ErrorResponse

	switch {
	case domain.IsNotFound(err):
		resp = NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		resp = NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		resp = NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{validationErr.Field: validationErr.Message}
		}

	case domain.IsUnavailable(err):
		resp = NewErrorResponse(ErrorCodeUnavailable, err.Error())

	default:
		resp = NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}

	return HTTPStatusFromCode(resp.Error.Code), resp
}

// GetTraceID returns the active span's trace ID, or "".
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// HandleError writes the envelope for err. Internal errors are logged with
// their detail, which the response does not carry.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			slog.Any("error", err),
			slog.String("trace_id", errResp.TraceID),
		)
	}

	c.JSON(status, errResp)
}

// HandleBindError writes a 400 for a failed BindQueryAndValidate, with
// field details when validation (rather than binding) failed.
func HandleBindError(c *gin.Context, err error) {
	var errResp *ErrorResponse

	if details := ValidationErrors(err); len(details) > 0 {
		errResp = NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details)
	} else {
		errResp = NewErrorResponse(ErrorCodeBadRequest, err.Error())
	}

	c.JSON(http.StatusBadRequest, errResp.WithTraceID(GetTraceID(c)))
}

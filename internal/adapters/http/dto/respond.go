package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/platform/logging"
	"github.com/jsamuelsen/bookstore-service/internal/platform/telemetry"
)

// Detail keys reported for mapping errors. Clients see one generic
// VALIDATION_ERROR code; the key says which class of field was rejected.
const (
	DetailID         = "id"
	DetailStatus     = "status"
	DetailAvailable  = "available"
	DetailPercentage = "percentage"
	DetailQuantity   = "quantity"
)

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	if me, ok := domain.AsMappingError(err); ok {
		return http.StatusBadRequest, NewErrorResponseWithDetails(
			ErrorCodeValidation,
			me.Error(),
			map[string]string{mappingDetailKey(me): me.Error()},
		)
	}

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, err.Error())

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// mappingDetailKey names the field class of a mapping error.
func mappingDetailKey(err domain.MappingError) string {
	switch domain.KindOf(err) {
	case domain.KindInvalidIdentifier:
		return DetailID
	case domain.KindInvalidEnumValue:
		return DetailStatus
	case domain.KindAvailabilityOutOfBounds:
		return DetailAvailable
	case domain.KindDiscountPercentageOutOfBounds:
		return DetailPercentage
	case domain.KindOrderQuantityOutOfBounds:
		return DetailQuantity
	default:
		return ""
	}
}

// GetTraceID returns the current span's trace ID, or "" when not tracing.
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// HandleError writes the error envelope for err. Mapping failures are
// counted by kind; internal errors are logged with full detail.
func HandleError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	if me, ok := domain.AsMappingError(err); ok {
		telemetry.RecordMappingFailure(ctx, string(domain.KindOf(me)))
	}

	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).ErrorContext(ctx, "internal error",
			slog.String("error", err.Error()),
			slog.String("trace_id", errResp.TraceID),
		)
	}

	c.JSON(status, errResp)
}

// HandleBindingError answers a failed BindAndValidate call: undecodable
// bodies become BAD_REQUEST, schema violations become VALIDATION_ERROR with
// field details.
func HandleBindingError(c *gin.Context, err error) {
	if errors.Is(err, ErrValidation) {
		RespondWithErrorCode(c, ErrorCodeValidation, "request validation failed", ValidationErrors(err))
		return
	}

	RespondWithErrorCode(c, ErrorCodeBadRequest, "malformed request body", nil)
}

// RespondWithErrorCode writes an error response with a specific error code.
func RespondWithErrorCode(c *gin.Context, code, message string, details map[string]string) {
	errResp := NewErrorResponseWithDetails(code, message, details).WithTraceID(GetTraceID(c))
	c.JSON(HTTPStatusFromCode(code), errResp)
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	errResp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), errResp)
}

// Package dto provides the wire types of the bookstore API and the helpers
// that bind, validate and answer HTTP requests with them.
package dto

import "net/http"

// ErrorResponse is the body of every non-2xx answer:
//
//	{"error":{"code":"VALIDATION_ERROR","message":"...","details":{...}},"traceId":"..."}
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail is the error object inside ErrorResponse.
type ErrorDetail struct {
	// Code is one of the ErrorCode constants.
	Code    string `json:"code"`
	Message string `json:"message"`

	// Details maps the offending field to its problem.
	Details map[string]string `json:"details,omitempty"`
}

// Machine-readable error codes.
const (
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeConflict reports a state conflict such as a duplicate
	// discount code.
	ErrorCodeConflict = "CONFLICT"

	// ErrorCodeValidation covers well-formed JSON that failed schema or
	// domain validation, mapping errors included.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeBadRequest reports a body that could not be decoded.
	ErrorCodeBadRequest = "BAD_REQUEST"

	ErrorCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	ErrorCodeRateLimited     = "RATE_LIMITED"
	ErrorCodeTimeout         = "TIMEOUT"
	ErrorCodeInternal        = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeConflict:        http.StatusConflict,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeBadRequest:      http.StatusBadRequest,
	ErrorCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrorCodeRateLimited:     http.StatusTooManyRequests,
	ErrorCodeTimeout:         http.StatusGatewayTimeout,
	ErrorCodeInternal:        http.StatusInternalServerError,
}

// NewErrorResponse builds an envelope without details.
func NewErrorResponse(code, message string) *ErrorResponse {
	return NewErrorResponseWithDetails(code, message, nil)
}

// NewErrorResponseWithDetails builds an envelope with per-field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the trace ID and returns e.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode returns the status for an error code; unknown codes
// answer 500.
func HTTPStatusFromCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

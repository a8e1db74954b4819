package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/clients"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
)

// ErrUnavailable marks failures of the remote service itself: transport
// errors, an open circuit, rate limiting and 5xx answers.
var ErrUnavailable = errors.New("service unavailable")

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx answer of the bookstore API. It unwraps to the
// domain sentinel matching its status, so callers can keep using
// domain.IsNotFound and friends.
type APIError struct {
	Operation string
	Status    int
	Code      string
	Message   string
	Details   map[string]string
	TraceID   string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Operation, e.Status)
	}

	return fmt.Sprintf("%s: %s (%s)", e.Operation, e.Message, e.Code)
}

// Unwrap maps the status to a sentinel.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Status == http.StatusConflict:
		return domain.ErrConflict
	case e.Status == http.StatusBadRequest:
		return domain.ErrValidation
	case e.Status == http.StatusTooManyRequests, e.Status >= http.StatusInternalServerError:
		return ErrUnavailable
	default:
		return nil
	}
}

// MapHTTPError turns a transport error or an error response into an error
// the domain understands. resp is consumed but not closed.
func MapHTTPError(resp *http.Response, clientErr error, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, operation)
	}

	if resp == nil {
		return fmt.Errorf("%s: %w: no response received", operation, ErrUnavailable)
	}

	apiErr := &APIError{Operation: operation, Status: resp.StatusCode}

	if envelope := parseErrorResponse(resp.Body); envelope != nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
		apiErr.TraceID = envelope.TraceID
	}

	return apiErr
}

// mapClientError classifies errors that happened before any answer.
func mapClientError(err error, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return fmt.Errorf("%s: %w: circuit open", operation, ErrUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", operation, err)
	default:
		return fmt.Errorf("%s: %w: %w", operation, ErrUnavailable, err)
	}
}

// parseErrorResponse decodes the standard error envelope, or returns nil
// when the body holds something else.
func parseErrorResponse(body io.Reader) *dto.ErrorResponse {
	if body == nil {
		return nil
	}

	var envelope dto.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&envelope); err != nil {
		return nil
	}

	if envelope.Error.Code == "" && envelope.Error.Message == "" {
		return nil
	}

	return &envelope
}

// Package clients provides the instrumented HTTP client used to call a
// running bookstore service: retries with backoff, a circuit breaker,
// request ID propagation and OpenTelemetry spans and metrics.
package clients

import "errors"

// Client errors are transport failures. Callers translate them, together
// with error envelopes, into domain errors.
var (
	// ErrCircuitOpen is returned without sending when the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

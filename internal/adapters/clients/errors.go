// Package clients provides outbound HTTP adapters: an instrumented client
// and the presentation asset prober built on it.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer. Callers
// translate them into domain errors.
var (
	// ErrCircuitOpen is returned while the circuit breaker rejects calls.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once all attempts are used.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrServerError marks a 5xx response.
	ErrServerError = errors.New("server error")

	// ErrUnexpectedStatus marks a non-success response to a probe.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

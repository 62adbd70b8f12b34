package notify

import "errors"

var (
	// ErrInvalidBaseURL is returned when the base URL is missing, malformed,
	// or uses a scheme other than http/https.
	ErrInvalidBaseURL = errors.New("notify: invalid base url")

	// ErrDeliveryFailed is returned after all retry attempts are exhausted.
	ErrDeliveryFailed = errors.New("notify: delivery failed")

	// ErrPermanentFailure is returned for responses that will not improve
	// with retries, such as 400 or 404.
	ErrPermanentFailure = errors.New("notify: permanent failure")

	// ErrCircuitOpen is returned while the circuit breaker is blocking
	// requests to a failing backend.
	ErrCircuitOpen = errors.New("notify: circuit breaker open")

	// ErrTimeout is returned when a single delivery attempt exceeds the
	// configured timeout.
	ErrTimeout = errors.New("notify: request timeout")

	// ErrInvalidSignature is returned by VerifySignature when the payload
	// does not match the signature or the timestamp is outside the window.
	ErrInvalidSignature = errors.New("notify: invalid signature")

	// ErrInvalidConfiguration is returned for missing secrets or payloads
	// in the signing helpers.
	ErrInvalidConfiguration = errors.New("notify: invalid configuration")
)

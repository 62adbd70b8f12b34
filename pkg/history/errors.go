package history

import "errors"

var (
	// ErrPersistFailed is returned when the backing store rejects a batch.
	ErrPersistFailed = errors.New("history: persist failed")

	// ErrIndexFailed is returned when an OpenSearch index request fails.
	ErrIndexFailed = errors.New("history: index request failed")
)

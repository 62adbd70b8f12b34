package session

import "time"

// Invalidation reasons set by the Manager itself. Callers of
// InvalidateCurrent may pass any reason string; these are the ones the
// Manager generates on its own.
const (
	// ReasonNewLogin is used when Create replaces an existing session.
	ReasonNewLogin = "new_login"

	// ReasonTimeout is used when lazy expiry invalidates a session.
	ReasonTimeout = "timeout"

	// ReasonDeviceMismatch is used when the device fingerprint no longer
	// matches the one the session was bound to.
	ReasonDeviceMismatch = "device_mismatch"

	// ReasonUserLogout is the conventional reason for caller-initiated
	// invalidation.
	ReasonUserLogout = "user_logout"
)

// Validation failure reasons reported in Result.Reason.
const (
	// ReasonNoSession means no session exists on this device.
	ReasonNoSession = "no_session"

	// ReasonSessionExpired means the session passed its expiry and was
	// invalidated.
	ReasonSessionExpired = "session_expired"

	// ReasonSessionInactive means a record exists but was already
	// invalidated.
	ReasonSessionInactive = "session_inactive"

	// ReasonValidationError is the catch-all for unexpected failures
	// during validation (storage, fingerprinting, rotation).
	ReasonValidationError = "validation_error"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventCreated     EventType = "created"
	EventInvalidated EventType = "invalidated"
	EventRotated     EventType = "rotated"
)

// Event describes a single session lifecycle transition. Events are
// emitted synchronously under the Manager's lock; sinks must not block.
type Event struct {
	Type          EventType `json:"type"`
	SessionID     string    `json:"sessionId"`
	UserID        string    `json:"userId,omitempty"`
	OldSessionID  string    `json:"oldSessionId,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	LoginMethod   string    `json:"loginMethod,omitempty"`
	SecurityAlert bool      `json:"securityAlert,omitempty"`
	Time          time.Time `json:"time"`
}

// EventSink receives lifecycle events for auditing or history purposes.
type EventSink interface {
	Record(event Event)
}

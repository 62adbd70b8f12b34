package session

import (
	"encoding/json"
	"time"
)

// Storage keys used by the Manager. The record lives in the tier selected by
// Config.SecureStorage; the activity marker is always written to the plain
// tier so it can be read without touching secure storage.
const (
	// KeySessionInfo holds the serialized session Record.
	KeySessionInfo = "session_info"

	// KeyLastActivity holds the last activity timestamp as epoch
	// milliseconds in decimal form.
	KeyLastActivity = "last_session_activity"
)

// Record is the persisted state of a session. All timestamps carry
// millisecond precision; the JSON form stores them as epoch milliseconds so
// records can be inspected and consumed outside this package.
type Record struct {
	// SessionID is the opaque session identifier. It changes on rotation.
	SessionID string

	// UserID identifies the owning user. Set at creation, immutable.
	UserID string

	// DeviceFingerprintHash binds the session to the device it was
	// created on. Empty when no fingerprinter was configured.
	DeviceFingerprintHash string

	// CreatedAt is when the session was created. Rotation does not
	// change it.
	CreatedAt time.Time

	// LastActivity is bumped on every validation, rotation and activity
	// update.
	LastActivity time.Time

	// ExpiresAt is CreatedAt plus the configured session timeout. It is
	// never extended.
	ExpiresAt time.Time

	// IsActive transitions from true to false exactly once, on
	// invalidation.
	IsActive bool

	// LoginMethod records how the user authenticated ("password",
	// "oauth", ...).
	LoginMethod string

	// IPAddress and UserAgent are optional creation-time metadata.
	IPAddress string
	UserAgent string
}

// recordJSON is the serialized form of Record with epoch-millisecond
// timestamps.
type recordJSON struct {
	SessionID             string `json:"sessionId"`
	UserID                string `json:"userId"`
	DeviceFingerprintHash string `json:"deviceFingerprintHash,omitempty"`
	CreatedAt             int64  `json:"createdAt"`
	LastActivity          int64  `json:"lastActivity"`
	ExpiresAt             int64  `json:"expiresAt"`
	IsActive              bool   `json:"isActive"`
	LoginMethod           string `json:"loginMethod,omitempty"`
	IPAddress             string `json:"ipAddress,omitempty"`
	UserAgent             string `json:"userAgent,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		SessionID:             r.SessionID,
		UserID:                r.UserID,
		DeviceFingerprintHash: r.DeviceFingerprintHash,
		CreatedAt:             r.CreatedAt.UnixMilli(),
		LastActivity:          r.LastActivity.UnixMilli(),
		ExpiresAt:             r.ExpiresAt.UnixMilli(),
		IsActive:              r.IsActive,
		LoginMethod:           r.LoginMethod,
		IPAddress:             r.IPAddress,
		UserAgent:             r.UserAgent,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.SessionID = raw.SessionID
	r.UserID = raw.UserID
	r.DeviceFingerprintHash = raw.DeviceFingerprintHash
	r.CreatedAt = time.UnixMilli(raw.CreatedAt)
	r.LastActivity = time.UnixMilli(raw.LastActivity)
	r.ExpiresAt = time.UnixMilli(raw.ExpiresAt)
	r.IsActive = raw.IsActive
	r.LoginMethod = raw.LoginMethod
	r.IPAddress = raw.IPAddress
	r.UserAgent = raw.UserAgent
	return nil
}

// IsExpired reports whether the record has passed its expiry.
func (r *Record) IsExpired() bool {
	if r == nil {
		return true
	}
	return time.Now().After(r.ExpiresAt)
}

// Age returns the time elapsed since the session was created.
func (r *Record) Age() time.Duration {
	if r == nil {
		return 0
	}
	return time.Since(r.CreatedAt)
}

// Clone returns a copy of the record so callers can't mutate the
// Manager's cached state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// nowMillis returns the current time truncated to millisecond precision,
// matching what survives a serialization round trip.
func nowMillis() time.Time {
	return time.UnixMilli(time.Now().UnixMilli())
}

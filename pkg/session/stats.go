package session

import "time"

// Stats is a snapshot of the Manager's lifecycle counters. Counters only
// grow (until ResetStats); LastActivity tracks the most recent activity
// bump and ActiveSessions is 0 or 1.
type Stats struct {
	SessionsCreated     int64     `json:"sessionsCreated"`
	SessionsInvalidated int64     `json:"sessionsInvalidated"`
	RotationsPerformed  int64     `json:"rotationsPerformed"`
	TimeoutExpirations  int64     `json:"timeoutExpirations"`
	HijackingDetected   int64     `json:"hijackingDetected"`
	DeviceMismatches    int64     `json:"deviceMismatches"`

	// FixationAttempts is reserved for server-reported fixation
	// detection; no client-side path increments it.
	FixationAttempts int64 `json:"fixationAttempts"`

	LastActivity   time.Time `json:"lastActivity"`
	ActiveSessions int       `json:"activeSessions"`
}

// Package session manages the lifecycle of a single device-bound user
// session: creation on login, validation with lazy expiry, periodic ID
// rotation, and explicit or security-triggered invalidation. It is built
// for clients that hold at most one session per device, persist it across
// restarts, and report lifecycle transitions to a backend without blocking
// the caller.
//
// The package is storage-agnostic: session state is persisted through the
// tiered key-value stores from pkg/keyvalue, with the session record kept
// in the secure tier (configurable) and the lightweight activity marker in
// the plain tier. Device binding is pluggable through the Fingerprinter
// interface, satisfied by pkg/fingerprint, and lifecycle notifications go
// through the Notifier interface, satisfied by pkg/notify.
//
// # Architecture
//
// A Manager serializes all session operations behind a single mutex, so
// callers never observe a half-applied transition. Lifecycle notifications
// are queued onto a buffered channel and delivered by a background worker,
// keeping Create, Validate and Rotate free of network latency. An optional
// ticker refreshes the activity timestamp at a fixed interval.
//
//	┌────────┐  Create/Validate/Rotate  ┌─────────────┐
//	│ Caller │ ───────────────────────► │   Manager   │
//	└────────┘                          └─────────────┘
//	                                     │     │    │
//	                      record + marker│     │    │ events
//	                                     ▼     │    ▼
//	                              ┌────────┐   │  ┌───────────┐
//	                              │ Tiered │   │  │ EventSink │
//	                              └────────┘   ▼  └───────────┘
//	                                      ┌──────────┐
//	                                      │ Notifier │ (async worker)
//	                                      └──────────┘
//
// # Usage
//
//	import (
//	    "github.com/stayware/sessionkit/pkg/fingerprint"
//	    "github.com/stayware/sessionkit/pkg/keyvalue"
//	    "github.com/stayware/sessionkit/pkg/notify"
//	    "github.com/stayware/sessionkit/pkg/session"
//	)
//
//	tiers := keyvalue.NewTiered(secureStore, plainStore)
//	fp := fingerprint.NewProvider(deviceSource, plainStore)
//	client, _ := notify.NewClient("https://api.example.com")
//
//	manager := session.New(
//	    session.WithStores(tiers),
//	    session.WithFingerprinter(fp),
//	    session.WithNotifier(client),
//	)
//	defer manager.Close()
//
//	rec, err := manager.Create(ctx, userID, "password")
//	// ...
//	res := manager.Validate(ctx)
//	if !res.Valid {
//	    // res.Reason explains why: session.ReasonNoSession, ReasonSessionExpired, ...
//	}
//
// # Lifecycle rules
//
// Create invalidates any existing session with reason "new_login" before
// persisting the new one, so two sessions are never active at once. Repeated
// Create calls for the same user inside the create debounce window return
// the existing session unchanged. Validate applies expiry lazily: an expired
// record is invalidated with reason "timeout" the first time it is seen.
// When device binding is enabled, a fingerprint mismatch invalidates the
// session and flags the validation result as a security alert. Sessions
// older than a quarter of the configured lifetime are rotated in place
// during validation; rotation changes the session ID and activity timestamp
// but never extends expiry.
//
// # Error Handling
//
// Common error values returned by the package:
//
//   - ErrNoActiveSession  – rotation requested without an active session
//   - ErrCreationFailed   – session could not be created or persisted
//   - ErrRotationFailed   – new ID could not be generated or persisted
//
// Read-only paths (Current, the activity ticker) never return errors to the
// caller; failures there are logged and treated as "no session".
package session

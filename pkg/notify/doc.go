// Package notify delivers session lifecycle notifications to a backend over
// HTTP. Deliveries are telemetry: the session layer fires them in the
// background and never blocks a user-facing operation on the outcome.
//
// Three endpoints are posted to, all JSON over POST:
//
//	{base}/auth/session/create      {"sessionId", "deviceFingerprint", "loginMethod"}
//	{base}/auth/session/invalidate  {"sessionId", "reason"}
//	{base}/auth/session/rotate      {"oldSessionId", "newSessionId"}
//
// # Architecture
//
//   - Client – pooled HTTP client bound to one base URL; SessionCreated,
//     SessionInvalidated, and SessionRotated map to the endpoints above.
//   - Backoff – retry delay strategies (exponential with jitter, fixed).
//   - CircuitBreaker – per-client breaker that stops hammering a backend
//     that keeps failing, with automatic half-open probing.
//   - SignRequest / VerifySignature – optional HMAC-SHA256 request signing
//     with timestamp binding so the receiver can authenticate notifications
//     and reject replays.
//
// # Usage
//
//	client, err := notify.NewClient("https://api.example.com",
//	    notify.WithSigningSecret(secret),
//	    notify.WithMaxRetries(3),
//	)
//	if err != nil {
//	    return err
//	}
//
//	if err := client.SessionCreated(ctx, sessionID, fpHash, "email"); err != nil {
//	    slog.Warn("notification failed", "error", err)
//	}
//
// Transient failures (network errors, 5xx, 408/425/429) are retried with
// backoff; other 4xx responses are treated as permanent and returned
// immediately wrapped in ErrPermanentFailure.
package notify

package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/stayware/sessionkit/pkg/fingerprint"
	"github.com/stayware/sessionkit/pkg/keyvalue"
)

// Fingerprinter produces the stable device fingerprint hash the session is
// bound to. Satisfied by *fingerprint.Provider.
type Fingerprinter interface {
	Hash(ctx context.Context) (string, error)
}

// Notifier delivers lifecycle notifications to the backend. Satisfied by
// *notify.Client. Calls happen on a background worker; errors are logged,
// never surfaced to session operations.
type Notifier interface {
	SessionCreated(ctx context.Context, sessionID, deviceFingerprint, loginMethod string) error
	SessionInvalidated(ctx context.Context, sessionID, reason string) error
	SessionRotated(ctx context.Context, oldSessionID, newSessionID string) error
}

// Result is the outcome of a validation pass.
type Result struct {
	// Valid reports whether the session may be used.
	Valid bool

	// Reason explains an invalid result (ReasonNoSession,
	// ReasonSessionExpired, ...). Empty when Valid.
	Reason string

	// ShouldRotate reports that the session ID was rotated during this
	// validation. NewSessionID carries the replacement ID.
	ShouldRotate bool
	NewSessionID string

	// SecurityAlert flags invalidations that look like an attack rather
	// than normal expiry (currently: device mismatch).
	SecurityAlert bool
}

// Manager owns the single device-bound session. All operations are
// serialized behind one mutex, so a validation never observes a
// half-created or half-rotated record.
type Manager struct {
	config        Config
	tiers         keyvalue.Tiered
	tiersSet      bool
	fingerprinter Fingerprinter
	notifier      Notifier
	sink          EventSink
	log           *slog.Logger

	mu               sync.Mutex
	current          *Record
	lastCreateAt     time.Time
	lastCreateUser   string
	lastInvalidateAt time.Time
	stats            Stats

	notifyChan chan notification
	done       chan struct{}
	closeOnce  sync.Once
}

// notification is a queued lifecycle notification awaiting delivery.
type notification struct {
	kind        EventType
	sessionID   string
	oldID       string
	fingerprint string
	loginMethod string
	reason      string
}

// New creates a new session manager with the given options
func New(opts ...Option) *Manager {
	m := &Manager{
		config:     DefaultConfig(),
		notifyChan: make(chan notification, 100),
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	if !m.tiersSet {
		m.tiers = keyvalue.SingleTier(keyvalue.NewMemory())
	}

	if m.log == nil {
		m.log = slog.Default()
	}

	if m.config.DeviceBindingEnabled && m.fingerprinter == nil {
		// Fail fast on misconfiguration: a bound session without a
		// fingerprint source can never be validated.
		panic("session: fingerprinter is required when device binding is enabled")
	}

	go m.notifyWorker()

	if m.config.TrackActivity && m.config.ActivityInterval > 0 {
		go m.activityLoop()
	}

	return m
}

// Create starts a new session for userID, invalidating any existing session
// first so two sessions are never active at once. Repeated calls for the
// same user within the create debounce window return the existing session
// unchanged.
func (m *Manager) Create(ctx context.Context, userID, loginMethod string, opts ...CreateOption) (*Record, error) {
	var meta createMeta
	for _, opt := range opts {
		opt(&meta)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.lastCreateUser == userID &&
		time.Since(m.lastCreateAt) < m.config.CreateDebounce {
		m.debug("session create debounced", slog.String("user_id", userID))
		return m.current.Clone(), nil
	}

	prev, err := m.loadCurrentLocked(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreationFailed, err)
	}
	if prev != nil {
		// The old session must be fully invalidated before the new one
		// is persisted, otherwise a fixated ID could survive the login.
		if err := m.invalidateLocked(ctx, prev, ReasonNewLogin, false); err != nil {
			return nil, errors.Join(ErrCreationFailed, err)
		}
	}

	id, err := generateSessionID()
	if err != nil {
		return nil, errors.Join(ErrCreationFailed, err)
	}

	var fpHash string
	if m.fingerprinter != nil {
		fpHash, err = m.fingerprinter.Hash(ctx)
		if err != nil {
			if m.config.DeviceBindingEnabled {
				return nil, errors.Join(ErrCreationFailed, err)
			}
			m.log.Warn("device fingerprint unavailable, session left unbound",
				slog.Any("error", err))
			fpHash = ""
		}
	}

	now := nowMillis()
	rec := &Record{
		SessionID:             id,
		UserID:                userID,
		DeviceFingerprintHash: fpHash,
		CreatedAt:             now,
		LastActivity:          now,
		ExpiresAt:             now.Add(m.config.SessionTimeout),
		IsActive:              true,
		LoginMethod:           loginMethod,
		IPAddress:             meta.ipAddress,
		UserAgent:             meta.userAgent,
	}

	if err := m.persistLocked(ctx, rec); err != nil {
		return nil, errors.Join(ErrCreationFailed, err)
	}

	m.current = rec
	m.lastCreateAt = time.Now()
	m.lastCreateUser = userID
	m.stats.SessionsCreated++
	m.stats.LastActivity = now

	m.queueNotify(notification{
		kind:        EventCreated,
		sessionID:   rec.SessionID,
		fingerprint: rec.DeviceFingerprintHash,
		loginMethod: rec.LoginMethod,
	})
	m.emit(Event{
		Type:        EventCreated,
		SessionID:   rec.SessionID,
		UserID:      rec.UserID,
		LoginMethod: rec.LoginMethod,
		Time:        now,
	})
	m.debug("session created",
		slog.String("session_id", rec.SessionID),
		slog.String("user_id", rec.UserID),
		slog.String("login_method", rec.LoginMethod))

	return rec.Clone(), nil
}

// Validate checks the current session and reports why it is unusable when
// it is not. Expiry is applied lazily here: an expired record is
// invalidated with reason "timeout" the first time validation sees it. A
// device fingerprint mismatch invalidates the session and raises
// Result.SecurityAlert. Valid sessions get their activity bumped, and
// sessions older than a quarter of the configured lifetime are rotated in
// place when auto-rotation is enabled.
func (m *Manager) Validate(ctx context.Context) Result {
	if !m.config.Enabled {
		return Result{Valid: true}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadCurrentLocked(ctx)
	if err != nil {
		m.log.Warn("session validation failed to load record", slog.Any("error", err))
		return Result{Reason: ReasonValidationError}
	}
	if rec == nil {
		return Result{Reason: ReasonNoSession}
	}

	if rec.IsExpired() {
		m.stats.TimeoutExpirations++
		if err := m.invalidateLocked(ctx, rec, ReasonTimeout, false); err != nil {
			m.log.Warn("expired session cleanup failed", slog.Any("error", err))
			return Result{Reason: ReasonValidationError}
		}
		return Result{Reason: ReasonSessionExpired}
	}

	if !rec.IsActive {
		return Result{Reason: ReasonSessionInactive}
	}

	if m.config.DeviceBindingEnabled && rec.DeviceFingerprintHash != "" {
		hash, err := m.fingerprinter.Hash(ctx)
		if err != nil {
			m.log.Warn("session validation failed to fingerprint device", slog.Any("error", err))
			return Result{Reason: ReasonValidationError}
		}
		if !fingerprint.Match(rec.DeviceFingerprintHash, hash) {
			m.stats.HijackingDetected++
			m.stats.DeviceMismatches++
			if err := m.invalidateLocked(ctx, rec, ReasonDeviceMismatch, true); err != nil {
				m.log.Warn("hijacked session cleanup failed", slog.Any("error", err))
				return Result{Reason: ReasonValidationError}
			}
			return Result{Reason: ReasonDeviceMismatch, SecurityAlert: true}
		}
	}

	rec.LastActivity = nowMillis()
	if err := m.persistLocked(ctx, rec); err != nil {
		m.log.Warn("session activity bump failed", slog.Any("error", err))
		return Result{Reason: ReasonValidationError}
	}
	m.writeActivityMarkerLocked(ctx, rec.LastActivity)
	m.stats.LastActivity = rec.LastActivity

	if m.config.AutoRotate && rec.Age() > m.config.RotationThreshold() {
		newID, err := m.rotateLocked(ctx, rec)
		if err != nil {
			m.log.Warn("session rotation failed during validation", slog.Any("error", err))
			return Result{Reason: ReasonValidationError}
		}
		return Result{Valid: true, ShouldRotate: true, NewSessionID: newID}
	}

	return Result{Valid: true}
}

// Rotate replaces the session ID while keeping creation time and expiry
// intact, so rotation never extends a session's lifetime. It requires an
// active session and returns the new ID.
func (m *Manager) Rotate(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadCurrentLocked(ctx)
	if err != nil {
		return "", errors.Join(ErrRotationFailed, err)
	}
	if rec == nil || !rec.IsActive {
		return "", ErrNoActiveSession
	}

	return m.rotateLocked(ctx, rec)
}

// InvalidateCurrent ends the current session with the given reason,
// clearing all persisted session state. Repeated calls within the
// invalidate debounce window are silently ignored, as is a call with no
// session present.
func (m *Manager) InvalidateCurrent(ctx context.Context, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lastInvalidateAt.IsZero() &&
		time.Since(m.lastInvalidateAt) < m.config.InvalidateDebounce {
		m.debug("session invalidation debounced", slog.String("reason", reason))
		return nil
	}

	rec, err := m.loadCurrentLocked(ctx)
	if err != nil {
		return errors.Join(ErrInvalidationFailed, err)
	}
	if rec == nil {
		return nil
	}

	if err := m.invalidateLocked(ctx, rec, reason, false); err != nil {
		return errors.Join(ErrInvalidationFailed, err)
	}
	m.lastInvalidateAt = time.Now()
	return nil
}

// UpdateActivity bumps the session's activity timestamp and refreshes the
// plain-tier marker. It is a no-op when no session exists. The background
// ticker calls this on every interval; callers may invoke it directly after
// meaningful user interaction.
func (m *Manager) UpdateActivity(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadCurrentLocked(ctx)
	if err != nil {
		return errors.Join(ErrActivityUpdate, err)
	}
	if rec == nil {
		return nil
	}

	rec.LastActivity = nowMillis()
	if err := m.persistLocked(ctx, rec); err != nil {
		return errors.Join(ErrActivityUpdate, err)
	}
	m.writeActivityMarkerLocked(ctx, rec.LastActivity)
	m.stats.LastActivity = rec.LastActivity
	return nil
}

// Current returns a copy of the current session record, or nil when none
// exists. Read failures are logged and reported as absence, never returned:
// callers use this to answer "is someone logged in", and a storage hiccup
// should not crash that path.
func (m *Manager) Current(ctx context.Context) *Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadCurrentLocked(ctx)
	if err != nil {
		m.log.Warn("failed to load current session", slog.Any("error", err))
		return nil
	}
	return rec.Clone()
}

// Stats returns a snapshot of the lifecycle counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.stats
	if m.current != nil && m.current.IsActive {
		snapshot.ActiveSessions = 1
	}
	return snapshot
}

// ResetStats zeroes all counters.
func (m *Manager) ResetStats() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = Stats{}
}

// Close stops the background workers, draining any queued notifications.
// Idempotent; synchronous operations remain usable after Close.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

// createMeta carries optional creation-time metadata.
type createMeta struct {
	ipAddress string
	userAgent string
}

// CreateOption attaches optional metadata to a new session.
type CreateOption func(*createMeta)

// WithIPAddress records the client IP the session was created from.
func WithIPAddress(ip string) CreateOption {
	return func(meta *createMeta) {
		meta.ipAddress = ip
	}
}

// WithUserAgent records the client user agent at creation time.
func WithUserAgent(ua string) CreateOption {
	return func(meta *createMeta) {
		meta.userAgent = ua
	}
}

// loadCurrentLocked returns the cached record or reads it through from
// storage. Absence is (nil, nil). Caller must hold m.mu.
func (m *Manager) loadCurrentLocked(ctx context.Context) (*Record, error) {
	if m.current != nil {
		return m.current, nil
	}

	data, err := m.recordStore().Get(ctx, KeySessionInfo)
	if err != nil {
		if errors.Is(err, keyvalue.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	m.current = &rec
	return m.current, nil
}

// persistLocked serializes the record into the configured tier.
func (m *Manager) persistLocked(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return m.recordStore().Set(ctx, KeySessionInfo, data)
}

// invalidateLocked flips the record inactive, persists that state, queues
// the notification and clears all persisted session keys. Used by Create
// (new_login), Validate (timeout, device_mismatch) and InvalidateCurrent.
func (m *Manager) invalidateLocked(ctx context.Context, rec *Record, reason string, alert bool) error {
	rec.IsActive = false
	if err := m.persistLocked(ctx, rec); err != nil {
		return err
	}

	m.queueNotify(notification{
		kind:      EventInvalidated,
		sessionID: rec.SessionID,
		reason:    reason,
	})

	// The record may sit in either tier if SecureStorage changed between
	// runs, so both are cleared.
	if err := m.tiers.Tier(keyvalue.TierSecure).Delete(ctx, KeySessionInfo); err != nil {
		return err
	}
	if err := m.tiers.Tier(keyvalue.TierPlain).Delete(ctx, KeySessionInfo); err != nil {
		return err
	}
	if err := m.tiers.Tier(keyvalue.TierPlain).Delete(ctx, KeyLastActivity); err != nil {
		return err
	}

	m.current = nil
	m.stats.SessionsInvalidated++

	m.emit(Event{
		Type:          EventInvalidated,
		SessionID:     rec.SessionID,
		UserID:        rec.UserID,
		Reason:        reason,
		SecurityAlert: alert,
		Time:          nowMillis(),
	})
	m.debug("session invalidated",
		slog.String("session_id", rec.SessionID),
		slog.String("reason", reason))
	return nil
}

// rotateLocked swaps in a fresh session ID, leaving CreatedAt and
// ExpiresAt untouched. The cached record is only replaced once the rotated
// copy has been persisted.
func (m *Manager) rotateLocked(ctx context.Context, rec *Record) (string, error) {
	id, err := generateSessionID()
	if err != nil {
		return "", errors.Join(ErrRotationFailed, err)
	}

	rotated := rec.Clone()
	rotated.SessionID = id
	rotated.LastActivity = nowMillis()

	if err := m.persistLocked(ctx, rotated); err != nil {
		return "", errors.Join(ErrRotationFailed, err)
	}

	oldID := rec.SessionID
	m.current = rotated
	m.stats.RotationsPerformed++
	m.stats.LastActivity = rotated.LastActivity

	m.queueNotify(notification{
		kind:      EventRotated,
		sessionID: id,
		oldID:     oldID,
	})
	m.emit(Event{
		Type:         EventRotated,
		SessionID:    id,
		OldSessionID: oldID,
		UserID:       rotated.UserID,
		Time:         rotated.LastActivity,
	})
	m.debug("session rotated",
		slog.String("old_session_id", oldID),
		slog.String("session_id", id))
	return id, nil
}

// writeActivityMarkerLocked refreshes the plain-tier activity marker. The
// marker is an optimization for cheap reads, so failures are logged rather
// than surfaced.
func (m *Manager) writeActivityMarkerLocked(ctx context.Context, at time.Time) {
	value := []byte(strconv.FormatInt(at.UnixMilli(), 10))
	if err := m.tiers.Tier(keyvalue.TierPlain).Set(ctx, KeyLastActivity, value); err != nil {
		m.log.Warn("activity marker write failed", slog.Any("error", err))
	}
}

// recordStore returns the tier holding the session record.
func (m *Manager) recordStore() keyvalue.Store {
	if m.config.SecureStorage {
		return m.tiers.Tier(keyvalue.TierSecure)
	}
	return m.tiers.Tier(keyvalue.TierPlain)
}

// queueNotify hands a notification to the background worker without
// blocking the caller.
func (m *Manager) queueNotify(n notification) {
	if m.notifier == nil {
		return
	}
	select {
	case m.notifyChan <- n:
	case <-m.done:
		// Manager closed, drop
	default:
		// Queue full, drop rather than block a session operation
		m.log.Warn("notification queue full, dropping event",
			slog.String("type", string(n.kind)))
	}
}

// notifyWorker delivers queued notifications until Close, then drains
// whatever is still pending.
func (m *Manager) notifyWorker() {
	for {
		select {
		case n := <-m.notifyChan:
			m.deliver(n)
		case <-m.done:
			for {
				select {
				case n := <-m.notifyChan:
					m.deliver(n)
				default:
					return
				}
			}
		}
	}
}

// deliver performs one notification call. Delivery failures are logged;
// the session state has already moved on.
func (m *Manager) deliver(n notification) {
	if m.notifier == nil {
		return
	}

	var err error
	ctx := context.Background()
	switch n.kind {
	case EventCreated:
		err = m.notifier.SessionCreated(ctx, n.sessionID, n.fingerprint, n.loginMethod)
	case EventInvalidated:
		err = m.notifier.SessionInvalidated(ctx, n.sessionID, n.reason)
	case EventRotated:
		err = m.notifier.SessionRotated(ctx, n.oldID, n.sessionID)
	}
	if err != nil {
		m.log.Warn("session notification failed",
			slog.String("type", string(n.kind)),
			slog.Any("error", err))
	}
}

// activityLoop refreshes the activity timestamp on a fixed interval until
// the manager is closed.
func (m *Manager) activityLoop() {
	ticker := time.NewTicker(m.config.ActivityInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.UpdateActivity(context.Background()); err != nil {
				m.log.Warn("periodic activity refresh failed", slog.Any("error", err))
			}
		case <-m.done:
			return
		}
	}
}

// emit forwards a lifecycle event to the configured sink, if any.
func (m *Manager) emit(e Event) {
	if m.sink != nil {
		m.sink.Record(e)
	}
}

// debug logs lifecycle details when debug mode is on.
func (m *Manager) debug(msg string, args ...any) {
	if m.config.DebugMode {
		m.log.Debug(msg, args...)
	}
}

// generateSessionID returns a cryptographically random session identifier:
// 32 bytes of entropy, URL-safe base64 encoded.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrIDGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

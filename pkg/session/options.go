package session

import (
	"log/slog"
	"time"

	"github.com/stayware/sessionkit/pkg/keyvalue"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithStores sets the tiered key-value stores backing session state
func WithStores(tiers keyvalue.Tiered) Option {
	return func(m *Manager) {
		m.tiers = tiers
		m.tiersSet = true
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithFingerprinter sets the device fingerprint provider
func WithFingerprinter(fp Fingerprinter) Option {
	return func(m *Manager) {
		m.fingerprinter = fp
	}
}

// WithNotifier sets the backend notifier for lifecycle events
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

// WithEventSink sets the sink receiving lifecycle events
func WithEventSink(sink EventSink) Option {
	return func(m *Manager) {
		m.sink = sink
	}
}

// WithLogger sets the logger used for swallowed failures
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithSessionTimeout sets the fixed session lifetime
func WithSessionTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.config.SessionTimeout = timeout
	}
}

// WithDeviceBinding toggles fingerprint checks during validation
func WithDeviceBinding(enabled bool) Option {
	return func(m *Manager) {
		m.config.DeviceBindingEnabled = enabled
	}
}

// WithAutoRotate toggles in-place rotation during validation
func WithAutoRotate(enabled bool) Option {
	return func(m *Manager) {
		m.config.AutoRotate = enabled
	}
}

// WithActivityTracking toggles the periodic activity refresh and sets its
// interval (0 disables the ticker but keeps manual updates working)
func WithActivityTracking(interval time.Duration) Option {
	return func(m *Manager) {
		m.config.TrackActivity = interval > 0
		m.config.ActivityInterval = interval
	}
}

// WithDebounce sets the create and invalidate debounce windows
func WithDebounce(create, invalidate time.Duration) Option {
	return func(m *Manager) {
		m.config.CreateDebounce = create
		m.config.InvalidateDebounce = invalidate
	}
}

// WithSecureStorage selects which tier holds the session record
func WithSecureStorage(enabled bool) Option {
	return func(m *Manager) {
		m.config.SecureStorage = enabled
	}
}

package session

import "time"

// Config holds session manager configuration
type Config struct {
	// Enabled toggles validation. A disabled manager treats every
	// session as valid.
	Enabled bool `env:"SESSION_ENABLED" envDefault:"true"`

	// SessionTimeout is the fixed session lifetime. Expiry is computed
	// once at creation and never extended.
	SessionTimeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"12h"`

	// MaxConcurrentSessions is reported to operators but not enforced
	// here: a device holds at most one session, and cross-device limits
	// are the backend's job.
	MaxConcurrentSessions int `env:"SESSION_MAX_CONCURRENT" envDefault:"3"`

	// DeviceBindingEnabled compares the device fingerprint on every
	// validation.
	DeviceBindingEnabled bool `env:"SESSION_DEVICE_BINDING" envDefault:"true"`

	// AutoRotate rotates the session ID during validation once the
	// session is older than a quarter of SessionTimeout.
	AutoRotate bool `env:"SESSION_AUTO_ROTATE" envDefault:"true"`

	// TrackActivity enables the periodic activity refresh goroutine.
	TrackActivity bool `env:"SESSION_TRACK_ACTIVITY" envDefault:"true"`

	// SecureStorage selects the secure tier for the session record.
	// The activity marker always lives in the plain tier.
	SecureStorage bool `env:"SESSION_SECURE_STORAGE" envDefault:"true"`

	// DebugMode enables verbose lifecycle logging.
	DebugMode bool `env:"SESSION_DEBUG" envDefault:"false"`

	// CreateDebounce suppresses repeated Create calls for the same user
	// within the window; the existing session is returned unchanged.
	CreateDebounce time.Duration `env:"SESSION_CREATE_DEBOUNCE" envDefault:"1s"`

	// InvalidateDebounce suppresses repeated InvalidateCurrent calls
	// within the window.
	InvalidateDebounce time.Duration `env:"SESSION_INVALIDATE_DEBOUNCE" envDefault:"5s"`

	// ActivityInterval is how often the background ticker refreshes the
	// activity timestamp (0 to disable).
	ActivityInterval time.Duration `env:"SESSION_ACTIVITY_INTERVAL" envDefault:"5m"`
}

// DefaultConfig returns default session manager configuration
func DefaultConfig() Config {
	return Config{
		Enabled:               true,
		SessionTimeout:        12 * time.Hour,
		MaxConcurrentSessions: 3,
		DeviceBindingEnabled:  true,
		AutoRotate:            true,
		TrackActivity:         true,
		SecureStorage:         true,
		DebugMode:             false,
		CreateDebounce:        time.Second,
		InvalidateDebounce:    5 * time.Second,
		ActivityInterval:      5 * time.Minute,
	}
}

// RotationThreshold returns the session age past which validation rotates
// the session ID: a quarter of the configured lifetime.
func (c Config) RotationThreshold() time.Duration {
	return c.SessionTimeout / 4
}

// NewFromConfig creates a new Manager from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}

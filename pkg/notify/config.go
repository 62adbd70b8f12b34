package notify

import "time"

// Config holds notification client configuration.
type Config struct {
	// BaseURL is the backend the three lifecycle endpoints hang off.
	BaseURL string `env:"SESSION_NOTIFY_BASE_URL"`

	Timeout    time.Duration `env:"SESSION_NOTIFY_TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"SESSION_NOTIFY_MAX_RETRIES" envDefault:"3"`

	// SigningSecret enables HMAC request signing when non-empty.
	SigningSecret string `env:"SESSION_NOTIFY_SIGNING_SECRET"`

	// Circuit breaker tuning. CircuitEnabled wires a breaker with these
	// thresholds into the client.
	CircuitEnabled          bool          `env:"SESSION_NOTIFY_CIRCUIT_ENABLED" envDefault:"true"`
	CircuitFailureThreshold int           `env:"SESSION_NOTIFY_CIRCUIT_FAILURES" envDefault:"5"`
	CircuitSuccessThreshold int           `env:"SESSION_NOTIFY_CIRCUIT_SUCCESSES" envDefault:"2"`
	CircuitRecoveryTimeout  time.Duration `env:"SESSION_NOTIFY_CIRCUIT_RECOVERY" envDefault:"30s"`
}

// NewClientFromConfig builds a Client from cfg. Extra options are applied
// after the config and win on conflict.
func NewClientFromConfig(cfg Config, opts ...Option) (*Client, error) {
	configOpts := []Option{
		WithTimeout(cfg.Timeout),
		WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.SigningSecret != "" {
		configOpts = append(configOpts, WithSigningSecret(cfg.SigningSecret))
	}
	if cfg.CircuitEnabled {
		configOpts = append(configOpts, WithCircuitBreaker(NewCircuitBreaker(
			cfg.CircuitFailureThreshold,
			cfg.CircuitSuccessThreshold,
			cfg.CircuitRecoveryTimeout,
		)))
	}

	configOpts = append(configOpts, opts...)

	return NewClient(cfg.BaseURL, configOpts...)
}

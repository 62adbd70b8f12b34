package httpserver

import "time"

// Config carries the HTTP server settings read from the environment.
type Config struct {
	// Addr is the address the server listens on.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// ReadTimeout bounds reading an entire request, header and body.
	ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`

	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`

	// IdleTimeout bounds how long a keep-alive connection may sit idle.
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	// ShutdownTimeout is the grace period for draining on shutdown.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// NewFromConfig builds a Server from cfg, skipping zero values. Options
// given here are applied after the config-derived ones, so callers can
// override any field.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	derived := make([]Option, 0, 5+len(opts))
	if cfg.Addr != "" {
		derived = append(derived, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 {
		derived = append(derived, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		derived = append(derived, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		derived = append(derived, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		derived = append(derived, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	return New(append(derived, opts...)...)
}

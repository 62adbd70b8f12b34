// Package config loads application configuration from environment
// variables into tagged structs, with optional .env file support.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
// godotenv seeds the process environment from .env files, env.Parse fills
// any struct whose fields carry `env` tags. Each configuration type is
// parsed at most once per process and cached, so every component asking
// for the same config sees the same values.
//
// # Usage
//
// Describe the configuration as a struct with `env` tags:
//
//	type CollectorConfig struct {
//	    Addr   string `env:"COLLECTOR_ADDR" envDefault:":8090"`
//	    Secret string `env:"COLLECTOR_SIGNING_SECRET"`
//	}
//
// Then load it:
//
//	var cfg CollectorConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// Load implicitly reads the default .env file the first time it runs; call
// LoadEnv explicitly to read specific files before loading structs:
//
//	config.MustLoadEnv(".env.local", ".env")
//
// Tests can call ResetCache to force reparsing after changing the
// environment.
package config

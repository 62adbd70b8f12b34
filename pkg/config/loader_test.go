package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayware/sessionkit/pkg/config"
)

type defaultsConfig struct {
	Name    string `env:"CONFTEST_NAME" envDefault:"sessionkit"`
	Retries int    `env:"CONFTEST_RETRIES" envDefault:"3"`
	Debug   bool   `env:"CONFTEST_DEBUG" envDefault:"false"`
}

type envConfig struct {
	Endpoint string `env:"CONFTEST_ENDPOINT" envDefault:"http://localhost"`
	Timeout  int    `env:"CONFTEST_TIMEOUT" envDefault:"10"`
}

type cachedConfig struct {
	Value string `env:"CONFTEST_CACHED" envDefault:"initial"`
}

type requiredConfig struct {
	Secret string `env:"CONFTEST_REQUIRED_SECRET,required"`
}

type fileConfig struct {
	Bucket string `env:"CONFTEST_FILE_BUCKET"`
	Region string `env:"CONFTEST_FILE_REGION" envDefault:"us-east-1"`
}

func TestLoad_Defaults(t *testing.T) {
	config.ResetCache()

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "sessionkit", cfg.Name)
	assert.Equal(t, 3, cfg.Retries)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvironment(t *testing.T) {
	config.ResetCache()
	t.Setenv("CONFTEST_ENDPOINT", "https://api.example.com")
	t.Setenv("CONFTEST_TIMEOUT", "30")

	var cfg envConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "https://api.example.com", cfg.Endpoint)
	assert.Equal(t, 30, cfg.Timeout)
}

func TestLoad_CachesPerType(t *testing.T) {
	config.ResetCache()
	t.Setenv("CONFTEST_CACHED", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	// The environment changes, but the cached copy wins.
	t.Setenv("CONFTEST_CACHED", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	config.ResetCache()

	var third cachedConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	err := config.Load[defaultsConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestLoad_MissingRequired(t *testing.T) {
	config.ResetCache()

	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestMustLoad(t *testing.T) {
	config.ResetCache()

	require.NotPanics(t, func() {
		var cfg defaultsConfig
		config.MustLoad(&cfg)
	})

	config.ResetCache()

	require.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}

func TestLoadEnv(t *testing.T) {
	config.ResetCache()

	require.NoError(t, config.LoadEnv("testdata/.env.test"))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "stayware-sessions", cfg.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Region)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv("testdata/does-not-exist.env")
	assert.ErrorIs(t, err, config.ErrEnvFileLoad)

	require.Panics(t, func() {
		config.MustLoadEnv("testdata/does-not-exist.env")
	})
}

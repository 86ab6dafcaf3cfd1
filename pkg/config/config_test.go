package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port      int    `env:"TEST_APP_PORT" envDefault:"8080"`
	Host      string `env:"TEST_APP_HOST" envDefault:"localhost"`
	LogLevel  string `env:"TEST_APP_LOG_LEVEL" envDefault:"info"`
	DevMode   bool   `env:"TEST_APP_DEV_MODE" envDefault:"false"`
	PageLimit int    `env:"TEST_APP_PAGE_LIMIT" envDefault:"5"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, 5, cfg.PageLimit)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_APP_PORT", "9090")
	t.Setenv("TEST_APP_HOST", "0.0.0.0")
	t.Setenv("TEST_APP_LOG_LEVEL", "debug")
	t.Setenv("TEST_APP_DEV_MODE", "true")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
}

type requiredConfig struct {
	JWTSecret string `env:"TEST_APP_JWT_SECRET,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_RequiredFieldPresent(t *testing.T) {
	t.Setenv("TEST_APP_JWT_SECRET", "secret-123")

	var cfg requiredConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "secret-123", cfg.JWTSecret)
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_APP_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "recetapp", cfg.PostgresDB)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "168h", cfg.DraftTTL)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "70000")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_ProductionRequiresStrongSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "too-short")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "a-very-long-secret-value-with-32-plus-characters")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("DRAFT_TTL", "one-week")

	_, err := Load()

	assert.Error(t, err)
}

func TestConfig_PostgresMapping(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_MAX_CONNS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	pg := cfg.Postgres()
	assert.Equal(t, "db.internal", pg.Host)
	assert.Equal(t, int32(50), pg.MaxConns)
	assert.Equal(t, "recetapp", pg.User)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.False(t, cfg.App.Pretty)
	assert.Equal(t, "localhost:5432", cfg.Database.Addr())
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, uint(5), cfg.Database.RetryAttempts)
	assert.Equal(t, "goose_db_version", cfg.Migrations.Table)
	assert.True(t, cfg.Migrations.Lock)
	assert.Equal(t, 5*time.Minute, cfg.Migrations.Timeout)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("MIGRATIONS_TABLE", "schema_versions")
	t.Setenv("MIGRATIONS_LOCK", "false")
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "db.internal:6432", cfg.Database.Addr())
	assert.Equal(t, "schema_versions", cfg.Migrations.Table)
	assert.False(t, cfg.Migrations.Lock)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestDescriptionListsVariables(t *testing.T) {
	desc, err := Description()
	require.NoError(t, err)

	assert.Contains(t, desc, "DB_PASSWORD")
	assert.Contains(t, desc, "MIGRATIONS_LOCK")
}

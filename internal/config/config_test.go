package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, DriverPgx, cfg.DBDriver)
	assert.Equal(t, 60*time.Second, cfg.SweepInterval)
	assert.True(t, cfg.SweepEnabled)
	assert.Equal(t, 5*time.Minute, cfg.PublishLeadTime)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://jobs@localhost/jobs")
	t.Setenv("DB_DRIVER", "PostgreSQL")
	t.Setenv("SWEEP_INTERVAL", "15s")
	t.Setenv("SWEEP_ENABLED", "false")
	t.Setenv("APPLY_RATE_LIMIT_PER_MIN", "0")
	t.Setenv("LOG_FORMAT", "Console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, "postgres://jobs@localhost/jobs", cfg.DatabaseURL)
	assert.Equal(t, DriverPQ, cfg.DBDriver)
	assert.Equal(t, 15*time.Second, cfg.SweepInterval)
	assert.False(t, cfg.SweepEnabled)
	assert.Equal(t, 0, cfg.ApplyRateLimitPerMin)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("SWEEP_INTERVAL", "0s")
	t.Setenv("MAX_PAGE_SIZE", "5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "SWEEP_INTERVAL")
	assert.Contains(t, err.Error(), "MAX_PAGE_SIZE")
	assert.NotNil(t, errors.GetReportableStackTrace(err))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TALENTPOOL_DOTENV_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TALENTPOOL_DOTENV_VALUE") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("TALENTPOOL_DOTENV_VALUE"))
}

func TestLoadDotEnvWrapsReadErrors(t *testing.T) {
	dir := t.TempDir()

	err := LoadDotEnv(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load "+dir)
	assert.NotNil(t, errors.UnwrapOnce(err))
	assert.NotNil(t, errors.GetReportableStackTrace(err))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempConfig(t *testing.T, content string) {
	t.Helper()

	tmpDir := t.TempDir()
	if content != "" {
		err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(content), 0644)
		require.NoError(t, err)
	}

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(originalDir) })

	require.NoError(t, os.Chdir(tmpDir))
}

func TestLoad(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		withTempConfig(t, "")

		cfg, err := Load("weather-store")
		require.NoError(t, err)

		assert.Equal(t, "weather-store", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, 8080, cfg.App.Port)
		assert.Equal(t, 30*time.Second, cfg.App.ShutdownTimeout)
		assert.Equal(t, "postgres", cfg.Postgres.Host)
		assert.Equal(t, 5432, cfg.Postgres.Port)
		assert.Equal(t, 600*time.Second, cfg.Cache.ResultTTL)
		assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
		assert.Equal(t, "@every 30s", cfg.HealthCheck.Schedule)
		assert.False(t, cfg.Archive.Enabled)
	})

	t.Run("config file overrides defaults", func(t *testing.T) {
		withTempConfig(t, `
app:
  name: "weather-store-test"
  env: "test"
  log_level: "debug"
  port: 9090

postgres:
  host: "db.internal"
  max_connections: 5

cache:
  result_ttl: "120s"

healthcheck:
  schedule: "@every 5s"
`)

		cfg, err := Load("weather-store")
		require.NoError(t, err)

		assert.Equal(t, "weather-store-test", cfg.App.Name)
		assert.Equal(t, "test", cfg.App.Env)
		assert.Equal(t, 9090, cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Postgres.Host)
		assert.Equal(t, 5, cfg.Postgres.MaxConnections)
		assert.Equal(t, 2*time.Minute, cfg.Cache.ResultTTL)
		assert.Equal(t, "@every 5s", cfg.HealthCheck.Schedule)
	})

	t.Run("environment overrides win", func(t *testing.T) {
		withTempConfig(t, "")

		t.Setenv("POSTGRES_HOST", "pg.example.com")
		t.Setenv("REDIS_HOST", "redis.example.com")
		t.Setenv("SERVICE_A_URL", "http://storage:9000")
		t.Setenv("MINIO_ENDPOINT", "minio.example.com:9000")
		t.Setenv("APP_ENV", "production")
		t.Setenv("LOG_LEVEL", "warn")

		cfg, err := Load("weather-agg")
		require.NoError(t, err)

		assert.Equal(t, "pg.example.com", cfg.Postgres.Host)
		assert.Equal(t, "redis.example.com", cfg.Redis.Host)
		assert.Equal(t, "http://storage:9000", cfg.Upstream.BaseURL)
		assert.Equal(t, "minio.example.com:9000", cfg.Archive.Endpoint)
		assert.True(t, cfg.Archive.Enabled)
		assert.Equal(t, "production", cfg.App.Env)
		assert.Equal(t, "warn", cfg.App.LogLevel)
	})

	t.Run("invalid config fails validation", func(t *testing.T) {
		withTempConfig(t, `
app:
  port: -1
`)

		_, err := Load("weather-store")
		assert.Error(t, err)
	})
}

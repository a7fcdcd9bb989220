package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("LoadDefaults", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

		assert.Equal(t, 7*time.Second, cfg.Fetch.Timeout)

		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "SIMPLE", cfg.Logging.Profile)

		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, 9090, cfg.Metrics.Port)

		assert.True(t, cfg.Health.Enabled)
		assert.False(t, cfg.Debug.Enabled)
	})

	t.Run("LoadFromFile", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  port: 9000
fetch:
  timeout: 10s
  user_agent: custom-agent/1.0
checkers:
  tiktok:
    min_body_bytes: 4096
logging:
  level: debug
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
		assert.Equal(t, "custom-agent/1.0", cfg.Fetch.UserAgent)
		assert.Equal(t, 4096, cfg.Checkers.TikTok.MinBodyBytes)
		assert.Equal(t, "debug", cfg.Logging.Level)

		// Non-overridden values keep their defaults.
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 9090, cfg.Metrics.Port)
	})

	t.Run("MissingFileErrors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HANDLELENS_SERVER_PORT", "3000")
		t.Setenv("HANDLELENS_LOGGING_LEVEL", "warn")
		t.Setenv("HANDLELENS_METRICS_ENABLED", "false")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.False(t, cfg.Metrics.Enabled)
	})

	t.Run("RuntimeOverridesWin", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HANDLELENS_SERVER_PORT", "4000")

		cfg, err := Load("", map[string]any{
			"server.port": 5000,
		})
		require.NoError(t, err)

		assert.Equal(t, 5000, cfg.Server.Port)
	})

	t.Run("DurationFromEnv", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HANDLELENS_SERVER_READ_TIMEOUT", "45s")
		t.Setenv("HANDLELENS_FETCH_TIMEOUT", "3s")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout)
	})
}

func TestGetConfigReturnsLoadedConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	retrieved := GetConfig()
	require.NotNil(t, retrieved)
	assert.Equal(t, cfg.Server.Port, retrieved.Server.Port)
	assert.Equal(t, cfg.Logging.Level, retrieved.Logging.Level)
}

func TestConfigReload(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg1, err := Load("")
	require.NoError(t, err)
	initialPort := cfg1.Server.Port

	cfg2, err := Load("", map[string]any{
		"server.port": initialPort + 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, initialPort+1000, cfg2.Server.Port)

	current := GetConfig()
	assert.Equal(t, cfg2.Server.Port, current.Server.Port)
}

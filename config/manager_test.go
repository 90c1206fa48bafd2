package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zbxmaint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ZBXMAINT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Cache.Disabled)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 256, cfg.Cache.MaxEntries)
	assert.False(t, cfg.HasAPI())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
api:
  url: https://zabbix.example.com/zabbix/
  token: " abc123 "
  timeout: 5s
timezone: Europe/Berlin
log_level: DEBUG
cache:
  disabled: true
  max_entries: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://zabbix.example.com/zabbix/", cfg.API.URL)
	assert.Equal(t, "abc123", cfg.API.Token)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.True(t, cfg.Cache.Disabled)
	assert.Equal(t, 10, cfg.Cache.MaxEntries)
	assert.True(t, cfg.HasAPI())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "timezone: Europe/Berlin\n")
	t.Setenv("ZBXMAINT_TIMEZONE", "Asia/Tokyo")
	t.Setenv("ZBXMAINT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}

func TestLoadWithAliasEnv(t *testing.T) {
	t.Setenv("ZBXMAINT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ZABBIX_URL", "http://localhost/zabbix")
	t.Setenv("ZABBIX_TOKEN", "tok")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost/zabbix", cfg.API.URL)
	assert.Equal(t, "tok", cfg.API.Token)
}

func TestLoadAliasDoesNotOverride(t *testing.T) {
	t.Setenv("ZBXMAINT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ZBXMAINT_API_URL", "https://primary.example.com")
	t.Setenv("ZBXMAINT_API_TOKEN", "primary")
	t.Setenv("ZABBIX_URL", "https://alias.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://primary.example.com", cfg.API.URL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "timezone: Mars/Olympus\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &AppConfig{LogLevel: tt.level}
			assert.Equal(t, tt.want, cfg.SlogLevel())
		})
	}
}

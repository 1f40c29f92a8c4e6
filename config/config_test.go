package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Cecilia", cfg.OSName)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	assert.Equal(t, 30*time.Second, cfg.CommandTimeoutDuration())
	assert.Contains(t, cfg.AllowedCommands, "ls")
	assert.Contains(t, cfg.BlockedCommands, "sudo")
	assert.NotContains(t, cfg.AllowedCommands, "sudo")
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
os_name: TestOS
port: 9090
allowed_commands: [ls, cat]
blocked_commands: [rm]
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "TestOS", cfg.OSName)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"ls", "cat"}, cfg.AllowedCommands)
	assert.Equal(t, []string{"rm"}, cfg.BlockedCommands)
	// Untouched fields keep defaults.
	assert.Equal(t, "🌼", cfg.OSIcon)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("os_name: FromFile\nport: 9090\n"), 0o600))

	t.Setenv("OS_NAME", "FromEnv")
	t.Setenv("PORT", "7070")
	t.Setenv("SESSION_EXPIRY", "3600")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.OSName)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, time.Hour, cfg.SessionTTL())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"huge port", func(c *Config) { c.Port = 70000 }},
		{"zero expiry", func(c *Config) { c.SessionExpiry = 0 }},
		{"zero timeout", func(c *Config) { c.CommandTimeout = 0 }},
		{"no homes dir", func(c *Config) { c.HomesDir = "" }},
		{"no data dir", func(c *Config) { c.DataDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

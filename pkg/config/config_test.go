package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Server.BaseURL)
	assert.Equal(t, 90, cfg.Server.TimeoutSeconds)
	assert.Equal(t, int64(1), cfg.Chat.UserID)
	assert.Equal(t, "bookdesk.log", cfg.Log.Path)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  base_url: \"http://example.test:9000\"\n  timeout_seconds: 30\nchat:\n  user_id: 7\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test:9000", cfg.Server.BaseURL)
	assert.Equal(t, 30, cfg.Server.TimeoutSeconds)
	assert.Equal(t, int64(7), cfg.Chat.UserID)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("BOOKDESK_BASE_URL", "http://override.test:8080")
	t.Setenv("BOOKDESK_USER_ID", "42")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://override.test:8080", cfg.Server.BaseURL)
	assert.Equal(t, int64(42), cfg.Chat.UserID)
}

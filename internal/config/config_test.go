package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.SessionPurgeInterval)
	assert.Equal(t, "23.1", cfg.ForecastImageLat)
	assert.Equal(t, 20, cfg.APIRateBurst)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	dir := writeEnv(t, "SERVER_ADDRESS=127.0.0.1:9000\nSESSION_TTL=2h\nLOG_FORMAT=console\n")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := LoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddress)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Zero session TTL", content: "SESSION_TTL=0s\n"},
		{name: "Negative purge interval", content: "SESSION_PURGE_INTERVAL=-1m\n"},
		{name: "Zero burst", content: "API_RATE_BURST=0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeEnv(t, tt.content))
			assert.Error(t, err)
		})
	}
}

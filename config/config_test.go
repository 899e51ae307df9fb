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

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, TranscriptNone, cfg.Transcript)
	assert.True(t, cfg.NLP)
	assert.Empty(t, cfg.ContentDir)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SHMOOPLAND_SEED", "1234")
	t.Setenv("SHMOOPLAND_NLP", "false")
	t.Setenv("SHMOOPLAND_TRANSCRIPT", "redis")
	t.Setenv("SHMOOPLAND_SESSION_TIMEOUT", "5m")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, int64(1234), cfg.Seed)
	assert.False(t, cfg.NLP)
	assert.Equal(t, TranscriptRedis, cfg.Transcript)
	assert.Equal(t, 5*time.Minute, cfg.SessionTimeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SHMOOPLAND_CONTENT_DIR=/srv/content\nPORT=7000\n"), 0o600))
	t.Setenv("PORT", "7100")
	t.Cleanup(func() { os.Unsetenv("SHMOOPLAND_CONTENT_DIR") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/content", cfg.ContentDir)
	assert.Equal(t, "7100", cfg.Port, "variables already set win over .env")
}

func TestLoad_InvalidTranscript(t *testing.T) {
	t.Setenv("SHMOOPLAND_TRANSCRIPT", "carrier_pigeon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier_pigeon")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SHMOOPLAND_SESSION_TIMEOUT", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := Config{LogLevel: in}
		assert.Equal(t, want, cfg.Level(), in)
	}
}

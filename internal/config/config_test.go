package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, "duelsmp.db", cfg.SQLitePath)
	assert.Equal(t, 1, cfg.DefaultBet)
	assert.Equal(t, "agreed", cfg.DefaultBetMode)
	assert.False(t, cfg.RandomBetMode)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, time.Duration(0), cfg.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"DUELSMP_HOST":             "127.0.0.1",
		"DUELSMP_PORT":             "9090",
		"DUELSMP_LOG_LEVEL":        "debug",
		"STORAGE_TYPE":             "redis",
		"REDIS_URL":                "redis://localhost:6379/0",
		"DUELSMP_DEFAULT_BET":      "3",
		"DUELSMP_DEFAULT_BET_MODE": "blind",
		"DUELSMP_RANDOM_BET_MODE":  "true",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "redis", cfg.StorageType)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 3, cfg.DefaultBet)
	assert.Equal(t, "blind", cfg.DefaultBetMode)
	assert.True(t, cfg.RandomBetMode)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unparseable port", map[string]string{"DUELSMP_PORT": "http"}},
		{"port out of range", map[string]string{"DUELSMP_PORT": "70000"}},
		{"unknown storage", map[string]string{"STORAGE_TYPE": "postgres"}},
		{"redis without url", map[string]string{"STORAGE_TYPE": "redis"}},
		{"bet too large", map[string]string{"DUELSMP_DEFAULT_BET": "6"}},
		{"unknown bet mode", map[string]string{"DUELSMP_DEFAULT_BET_MODE": "sealed"}},
		{"unknown log level", map[string]string{"DUELSMP_LOG_LEVEL": "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.env)
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsProcessEnvironment(t *testing.T) {
	t.Setenv("DUELSMP_PORT", "8181")
	t.Setenv("STORAGE_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/ladder.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, "sqlite", cfg.StorageType)
	assert.Equal(t, "/tmp/ladder.db", cfg.SQLitePath)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DUMPTRICK_ADDR",
		"DUMPTRICK_LOG_LEVEL",
		"DUMPTRICK_JWT_SECRET",
		"DUMPTRICK_REDIS_ADDR",
		"DUMPTRICK_BOT_FILL",
		"DUMPTRICK_GAME_EXPIRATION_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.JWTSecret, "secret generated when unset")
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.BotFill)
	assert.Equal(t, time.Hour, cfg.GameExpiration)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DUMPTRICK_ADDR", ":9100")
	t.Setenv("DUMPTRICK_LOG_LEVEL", "debug")
	t.Setenv("DUMPTRICK_JWT_SECRET", "fixed-secret")
	t.Setenv("DUMPTRICK_REDIS_ADDR", "localhost:6379")
	t.Setenv("DUMPTRICK_BOT_FILL", "true")
	t.Setenv("DUMPTRICK_GAME_EXPIRATION_SECONDS", "90")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "fixed-secret", cfg.JWTSecret)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.True(t, cfg.BotFill)
	assert.Equal(t, 90*time.Second, cfg.GameExpiration)
}

func TestLoadZeroExpirationDisables(t *testing.T) {
	clearEnv(t)
	t.Setenv("DUMPTRICK_GAME_EXPIRATION_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.GameExpiration)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DUMPTRICK_BOT_FILL", "maybe")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("DUMPTRICK_GAME_EXPIRATION_SECONDS", "-5")
	_, err = Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("DUMPTRICK_GAME_EXPIRATION_SECONDS", "soon")
	_, err = Load()
	assert.Error(t, err)
}

// Package config loads server settings from the environment, with an
// optional .env file for development.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the server reads at boot.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// LogLevel is a logrus level name.
	LogLevel string
	// JWTSecret signs identity tokens. Generated per boot when unset, which
	// is fine for a server whose state doesn't survive restarts either.
	JWTSecret string
	// RedisAddr enables the action historian when set.
	RedisAddr string
	// BotFill lets start_game fill empty seats with bots.
	BotFill bool
	// GameExpiration resets a stale in-progress game back to the lobby.
	// Zero disables expiration.
	GameExpiration time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           envOr("DUMPTRICK_ADDR", ":8000"),
		LogLevel:       envOr("DUMPTRICK_LOG_LEVEL", "info"),
		JWTSecret:      os.Getenv("DUMPTRICK_JWT_SECRET"),
		RedisAddr:      os.Getenv("DUMPTRICK_REDIS_ADDR"),
		GameExpiration: time.Hour,
	}

	if v := os.Getenv("DUMPTRICK_BOT_FILL"); v != "" {
		botFill, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("DUMPTRICK_BOT_FILL: %w", err)
		}
		cfg.BotFill = botFill
	}
	if v := os.Getenv("DUMPTRICK_GAME_EXPIRATION_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 0 {
			return nil, fmt.Errorf("DUMPTRICK_GAME_EXPIRATION_SECONDS: invalid value %q", v)
		}
		cfg.GameExpiration = time.Duration(secs) * time.Second
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

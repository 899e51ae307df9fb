// Package config reads runtime settings from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Transcript backends.
const (
	TranscriptNone   = "none"
	TranscriptMemory = "memory"
	TranscriptRedis  = "redis"
	TranscriptZstd   = "zstd"
)

type Config struct {
	// ContentDir is the content pack directory. Empty means the embedded pack.
	ContentDir  string `env:"SHMOOPLAND_CONTENT_DIR"`
	Port        string `env:"PORT"        envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"   envDefault:"info"`

	SessionTimeout time.Duration `env:"SHMOOPLAND_SESSION_TIMEOUT" envDefault:"30m"`
	// Seed fixes the RNG seed of every session. Zero picks one per session.
	Seed int64 `env:"SHMOOPLAND_SEED"`
	NLP  bool  `env:"SHMOOPLAND_NLP"  envDefault:"true"`

	Transcript    string        `env:"SHMOOPLAND_TRANSCRIPT"     envDefault:"none"`
	RedisURL      string        `env:"REDIS_URL"                 envDefault:"redis://localhost:6379/0"`
	TranscriptDir string        `env:"SHMOOPLAND_TRANSCRIPT_DIR" envDefault:"transcripts"`
	TranscriptTTL time.Duration `env:"SHMOOPLAND_TRANSCRIPT_TTL" envDefault:"24h"`
}

// Load reads the given .env files (".env" when none are named), then parses
// the environment. Variables already set take precedence over .env values.
// A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Transcript {
	case TranscriptNone, TranscriptMemory, TranscriptRedis, TranscriptZstd:
	default:
		return fmt.Errorf("invalid SHMOOPLAND_TRANSCRIPT %q: want none, memory, redis or zstd", c.Transcript)
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("invalid SHMOOPLAND_SESSION_TIMEOUT %s: must be positive", c.SessionTimeout)
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
)

// Store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config is the complete server configuration, read from the environment.
type Config struct {
	StoreBackend string `env:"STORE_BACKEND" env-default:"postgres"`
	LogLevel     string `env:"LOG_LEVEL" env-default:"info"`

	// HideInternalErrors replaces the description of internal errors with a
	// generic message.
	HideInternalErrors bool `env:"HIDE_INTERNAL_ERRORS" env-default:"false"`

	// RequireAuth puts the roles and users endpoints behind bearer auth.
	RequireAuth bool `env:"API_REQUIRE_AUTH" env-default:"false"`

	// AuditEnabled logs every change made through /roles and /users
	AuditEnabled bool `env:"AUDIT_ENABLED" env-default:"true"`

	LookupTimeout string `env:"AUTH_LOOKUP_TIMEOUT" env-default:"5s"`

	Token     TokenConfig
	Password  PasswordConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig

	// Server
	AppConfig app.AppConfig
}

// Load reads the given .env files, when they exist, then the environment,
// and validates the result. Variables already set in the environment win
// over .env values.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("No .env file found", "path", f)
				continue
			}
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
		slog.Info("Loaded configuration from .env file", "path", f)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the server cannot start with.
// Every problem is reported, as Problems.
func (c *Config) Validate() error {
	ck := &checker{}
	c.Token.check(ck)
	c.Password.check(ck)
	c.RateLimit.check(ck)
	ck.oneOf("STORE_BACKEND", c.StoreBackend, StorePostgres, StoreMemory)
	ck.oneOf("LOG_LEVEL", strings.ToLower(c.LogLevel), "debug", "info", "warn", "error")
	ck.duration("AUTH_LOOKUP_TIMEOUT", c.LookupTimeout, false)
	if c.StoreBackend == StorePostgres {
		c.Database.check(ck)
	}
	return ck.err()
}

// ParseLookupTimeout returns the bound on credential store lookups during
// authentication.
func (c *Config) ParseLookupTimeout() (time.Duration, error) {
	return parseDurationISO8601(c.LookupTimeout)
}

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DefaultEnvFiles returns the .env locations checked by the binaries: next
// to the executable, then the working directory.
func DefaultEnvFiles() []string {
	var files []string
	if exe, err := os.Executable(); err == nil {
		files = append(files, filepath.Join(filepath.Dir(exe), ".env"))
	}
	if cwd, err := os.Getwd(); err == nil {
		files = append(files, filepath.Join(cwd, ".env"))
	}
	return files
}

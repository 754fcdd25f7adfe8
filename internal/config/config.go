// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads quill's settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"QUILL_DB_PATH" envDefault:"./data/quill.db"`
	SessionSecret string `env:"QUILL_SESSION_SECRET,required"`
	ServerHost    string `env:"QUILL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"QUILL_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"QUILL_ENV" envDefault:"development"`
	LogLevel      string `env:"QUILL_LOG_LEVEL" envDefault:"info"`

	// AdminUserID is the only account allowed to manage posts.
	AdminUserID int64 `env:"QUILL_ADMIN_USER_ID" envDefault:"1"`

	// Sessions
	RedisURL        string        `env:"QUILL_REDIS_URL"` // Optional Redis URL for the session store
	SessionLifetime time.Duration `env:"QUILL_SESSION_LIFETIME" envDefault:"24h"`

	// Optional first-run admin account, created only on an empty database
	AdminEmail    string `env:"QUILL_ADMIN_EMAIL"`
	AdminPassword string `env:"QUILL_ADMIN_PASSWORD"`
	AdminName     string `env:"QUILL_ADMIN_NAME" envDefault:"Admin"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Port returns the server port as a string.
func (c Config) Port() string {
	return strconv.Itoa(c.ServerPort)
}

// UseRedisSessions returns true if sessions should live in Redis.
func (c Config) UseRedisSessions() bool {
	return c.RedisURL != ""
}

// SeedAdmin returns true if a first-run admin account is configured.
func (c Config) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("QUILL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("QUILL_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("QUILL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if c.AdminUserID <= 0 {
		return fmt.Errorf("QUILL_ADMIN_USER_ID must be positive, got %d", c.AdminUserID)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("QUILL_SERVER_PORT out of range: %d", c.ServerPort)
	}
	if c.SessionLifetime <= 0 {
		return fmt.Errorf("QUILL_SESSION_LIFETIME must be positive, got %s", c.SessionLifetime)
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("QUILL_ADMIN_EMAIL and QUILL_ADMIN_PASSWORD must be set together")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}

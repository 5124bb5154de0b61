// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Deployment modes. Local mode runs a single seeded group without
// authentication; multi mode requires bearer tokens and supports many
// groups with role-based permissions.
const (
	ModeLocal = "local"
	ModeMulti = "multi"
)

// Config holds all server configuration.
type Config struct {
	// HTTP server
	Port string

	// Deployment mode: "local" or "multi"
	Mode string

	// Database
	DBPath string

	// Auth (multi mode)
	JWTSecret     string
	TokenDuration time.Duration

	// Token sweeper
	SweepInterval time.Duration

	// SeedMembers is the member list a group reset repopulates.
	SeedMembers []string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "3012"),
		Mode:          getEnv("MODE", ModeLocal),
		DBPath:        getEnv("DB_PATH", "./data/budget_splitter.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenDuration: getEnvDuration("TOKEN_DURATION", 30*24*time.Hour),
		SweepInterval: getEnvDuration("TOKEN_SWEEP_INTERVAL", time.Hour),
		SeedMembers:   splitList(getEnv("SEED_MEMBERS", "Alice,Bob")),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Mode != ModeLocal && c.Mode != ModeMulti {
		errs = append(errs, fmt.Sprintf("invalid mode '%s': must be '%s' or '%s'", c.Mode, ModeLocal, ModeMulti))
	}

	if c.Mode == ModeMulti && c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required in multi mode")
	}

	if c.TokenDuration < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid token duration %v: must be at least 1 minute", c.TokenDuration))
	}
	if c.SweepInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid sweep interval %v: must be at least 1 minute", c.SweepInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

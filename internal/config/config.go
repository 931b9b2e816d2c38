// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// MinSessionSecretLength is the minimum required length for the session
// secret.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment
// variables.
type Config struct {
	DBDriver      string `env:"STUDIO_DB_DRIVER" envDefault:"sqlite"`
	DBDSN         string `env:"STUDIO_DB_DSN" envDefault:"./data/studio.db"`
	SessionSecret string `env:"STUDIO_SESSION_SECRET,required"`
	ServerHost    string `env:"STUDIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"STUDIO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"STUDIO_ENV" envDefault:"development"`
	LogLevel      string `env:"STUDIO_LOG_LEVEL" envDefault:"info"`

	// Content proxy configuration
	ContentBaseURL  string `env:"STUDIO_CONTENT_BASE_URL"`                   // Headless CMS base URL; empty disables the proxy
	ContentCacheTTL int    `env:"STUDIO_CONTENT_CACHE_TTL" envDefault:"300"` // Proxy cache TTL in seconds

	// Cache configuration
	RedisURL    string `env:"STUDIO_REDIS_URL"`                       // Optional Redis URL for the content cache
	CachePrefix string `env:"STUDIO_CACHE_PREFIX" envDefault:"studio:"`

	// GeoIP configuration
	GeoIPDBPath string `env:"STUDIO_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Visit log retention, in days. 0 disables the nightly trim.
	VisitRetentionDays int `env:"STUDIO_VISIT_RETENTION_DAYS" envDefault:"0"`

	// Seeding configuration
	DoSeed bool `env:"STUDIO_DO_SEED" envDefault:"true"` // Create the seed account on startup
}

// IsDevelopment returns true if the application is running in development
// mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// ContentProxyEnabled returns true if a headless CMS base URL is set.
func (c Config) ContentProxyEnabled() bool {
	return c.ContentBaseURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("STUDIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	return cfg, nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the gateway configuration loaded from environment variables.
type Config struct {
	APIBaseURL     string        `env:"JAMJAM_API_BASE_URL,required"`
	APITimeout     time.Duration `env:"JAMJAM_API_TIMEOUT" envDefault:"15s"`
	APIRetries     uint64        `env:"JAMJAM_API_RETRIES" envDefault:"2"`
	MethodOverride bool          `env:"JAMJAM_API_METHOD_OVERRIDE" envDefault:"true"` // send updates as POST + _method=PUT

	ServerHost string `env:"JAMJAM_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"JAMJAM_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"JAMJAM_ENV" envDefault:"development"`
	LogLevel   string `env:"JAMJAM_LOG_LEVEL" envDefault:"info"`
	DBPath     string `env:"JAMJAM_DB_PATH" envDefault:"./data/jamjam.db"`

	// Cache configuration
	RedisURL     string        `env:"JAMJAM_REDIS_URL"`                         // Optional Redis URL for a shared cache
	CachePrefix  string        `env:"JAMJAM_CACHE_PREFIX" envDefault:"jamjam:"` // Redis key prefix
	CacheTTL     time.Duration `env:"JAMJAM_CACHE_TTL" envDefault:"60s"`
	CacheMaxSize int           `env:"JAMJAM_CACHE_MAX_SIZE" envDefault:"1000"` // Max memory cache entries

	CORSOrigins []string `env:"JAMJAM_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Public site URL for sitemap.xml and robots.txt; sitemap is disabled when empty
	SiteURL string `env:"JAMJAM_SITE_URL"`

	// Upload limits
	MaxUploadMB int `env:"JAMJAM_MAX_UPLOAD_MB" envDefault:"32"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if the application is running in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MaxUploadBytes is the multipart body limit for admin submissions.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("JAMJAM_API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	if c.APITimeout <= 0 {
		return errors.New("JAMJAM_API_TIMEOUT must be positive")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("JAMJAM_SERVER_PORT out of range: %d", c.ServerPort)
	}
	if c.SiteURL != "" {
		if u, err := url.Parse(c.SiteURL); err != nil || u.Host == "" {
			return fmt.Errorf("JAMJAM_SITE_URL must be an absolute URL, got %q", c.SiteURL)
		}
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("JAMJAM_MAX_UPLOAD_MB must be positive")
	}
	return nil
}

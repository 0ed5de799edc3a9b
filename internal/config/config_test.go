// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// clearJamjamEnv unsets every JAMJAM_ variable for the duration of the test.
func clearJamjamEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "JAMJAM_") {
			t.Setenv(key, "")
			_ = os.Unsetenv(key)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearJamjamEnv(t)
	t.Setenv("JAMJAM_API_BASE_URL", "https://api.example.com/api/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIBaseURL != "https://api.example.com/api" {
		t.Errorf("APIBaseURL = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Errorf("APITimeout = %v, want 15s", cfg.APITimeout)
	}
	if cfg.APIRetries != 2 {
		t.Errorf("APIRetries = %d, want 2", cfg.APIRetries)
	}
	if !cfg.MethodOverride {
		t.Error("MethodOverride should default to true")
	}
	if cfg.DBPath != "./data/jamjam.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/jamjam.db")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want localhost:8080", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development by default")
	}
	if cfg.UseRedisCache() {
		t.Error("Redis should be off by default")
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v, want 1m", cfg.CacheTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.MaxUploadBytes() != 32<<20 {
		t.Errorf("MaxUploadBytes() = %d", cfg.MaxUploadBytes())
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearJamjamEnv(t)
	t.Setenv("JAMJAM_API_BASE_URL", "http://127.0.0.1:8000/api")
	t.Setenv("JAMJAM_API_TIMEOUT", "3s")
	t.Setenv("JAMJAM_API_RETRIES", "0")
	t.Setenv("JAMJAM_API_METHOD_OVERRIDE", "false")
	t.Setenv("JAMJAM_SERVER_HOST", "0.0.0.0")
	t.Setenv("JAMJAM_SERVER_PORT", "3000")
	t.Setenv("JAMJAM_ENV", "production")
	t.Setenv("JAMJAM_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("JAMJAM_CORS_ORIGINS", "https://jamjam.example,https://admin.jamjam.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APITimeout != 3*time.Second || cfg.APIRetries != 0 || cfg.MethodOverride {
		t.Errorf("unexpected API settings: %+v", cfg)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() || !cfg.IsProduction() {
		t.Error("expected production")
	}
	if !cfg.UseRedisCache() {
		t.Error("expected Redis enabled")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.CORSOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing base url", map[string]string{}},
		{"relative base url", map[string]string{"JAMJAM_API_BASE_URL": "/api"}},
		{"ftp base url", map[string]string{"JAMJAM_API_BASE_URL": "ftp://example.com"}},
		{"bad port", map[string]string{"JAMJAM_API_BASE_URL": "https://x.test", "JAMJAM_SERVER_PORT": "70000"}},
		{"zero timeout", map[string]string{"JAMJAM_API_BASE_URL": "https://x.test", "JAMJAM_API_TIMEOUT": "0s"}},
		{"bad duration", map[string]string{"JAMJAM_API_BASE_URL": "https://x.test", "JAMJAM_CACHE_TTL": "soon"}},
		{"relative site url", map[string]string{"JAMJAM_API_BASE_URL": "https://x.test", "JAMJAM_SITE_URL": "jamjam"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearJamjamEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

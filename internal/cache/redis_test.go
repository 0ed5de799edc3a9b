// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test unless JAMJAM_TEST_REDIS_URL is set.
func skipIfNoRedis(t *testing.T) string {
	url := os.Getenv("JAMJAM_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: JAMJAM_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCache_Basic(t *testing.T) {
	url := skipIfNoRedis(t)
	ctx := context.Background()

	c, err := NewRedisCache(ctx, RedisOptions{URL: url, Prefix: "jamjam-test:", DefaultTTL: time.Minute, ConnectTimeout: time.Second})
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = c.Close() }()
	_ = c.DeleteByPrefix(ctx, "")

	if err := c.Set(ctx, "treks:public", []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "treks:public")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("expected payload, got %s", got)
	}

	if err := c.DeleteByPrefix(ctx, "treks:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if _, err := c.Get(ctx, "treks:public"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}

	if s := c.Stats(); s.Backend != "redis" || s.Sets != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestNewRedisCache_RequiresURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisOptions{}); err == nil {
		t.Fatal("expected error for empty URL")
	}
}

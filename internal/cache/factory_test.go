// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_MemoryByDefault(t *testing.T) {
	c := New(context.Background(), Config{DefaultTTL: time.Minute}, discardLogger())
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Fatalf("expected *MemoryCache, got %T", c)
	}
}

func TestNew_FallsBackWhenRedisUnreachable(t *testing.T) {
	c := New(context.Background(), Config{
		RedisURL:   "redis://127.0.0.1:1/0",
		DefaultTTL: time.Minute,
	}, discardLogger())
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Fatalf("expected memory fallback, got %T", c)
	}
}

func TestNew_InvalidRedisURL(t *testing.T) {
	c := New(context.Background(), Config{RedisURL: "not-a-url"}, discardLogger())
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Fatalf("expected memory fallback, got %T", c)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type cachedList struct {
	Items []string `json:"items"`
}

func TestTyped_GetOrLoad(t *testing.T) {
	mc := NewMemoryCache(MemoryOptions{DefaultTTL: time.Hour})
	defer func() { _ = mc.Close() }()
	tc := NewTyped[cachedList](mc, 0)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (cachedList, error) {
		calls++
		return cachedList{Items: []string{"everest", "langtang"}}, nil
	}

	for range 3 {
		v, err := tc.GetOrLoad(ctx, "treks", load)
		if err != nil {
			t.Fatalf("GetOrLoad failed: %v", err)
		}
		if len(v.Items) != 2 {
			t.Fatalf("expected 2 items, got %v", v.Items)
		}
	}
	if calls != 1 {
		t.Errorf("expected loader to run once, ran %d times", calls)
	}
}

func TestTyped_LoadErrorNotCached(t *testing.T) {
	mc := NewMemoryCache(MemoryOptions{DefaultTTL: time.Hour})
	defer func() { _ = mc.Close() }()
	tc := NewTyped[cachedList](mc, time.Minute)
	ctx := context.Background()

	boom := errors.New("backend down")
	_, err := tc.GetOrLoad(ctx, "tours", func(context.Context) (cachedList, error) {
		return cachedList{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := tc.Get(ctx, "tours"); ok {
		t.Error("failed load must not be cached")
	}
}

func TestTyped_CorruptEntryIsMiss(t *testing.T) {
	mc := NewMemoryCache(MemoryOptions{DefaultTTL: time.Hour})
	defer func() { _ = mc.Close() }()
	ctx := context.Background()

	_ = mc.Set(ctx, "blogs", []byte("{not json"), 0)
	if _, ok := NewTyped[cachedList](mc, 0).Get(ctx, "blogs"); ok {
		t.Error("expected corrupt entry to be reported as a miss")
	}
}

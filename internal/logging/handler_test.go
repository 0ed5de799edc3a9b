// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/DishantGiri/jamjam/internal/model"
	"github.com/DishantGiri/jamjam/internal/store"
	"github.com/DishantGiri/jamjam/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, db *sql.DB) []model.Event {
	t.Helper()
	events, err := store.New(db).ListEvents(context.Background(), store.ListEventsParams{Limit: 50})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_RecordsWarningsAndErrors(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Info("served home page")
	logger.Warn("backend fetch failed", "collection", "treks", "status", 502)
	logger.Error("login rejected", "email", "admin@example.com")

	events := listEvents(t, db)
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}

	byMsg := map[string]model.Event{}
	for _, e := range events {
		byMsg[e.Message] = e
	}

	warn := byMsg["backend fetch failed"]
	if warn.Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want warning", warn.Level)
	}
	if warn.Category != model.EventCategoryBackend {
		t.Errorf("Category = %q, want backend", warn.Category)
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(warn.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%s)", err, warn.Metadata)
	}
	if meta["collection"] != "treks" || meta["status"] != "502" {
		t.Errorf("unexpected metadata %v", meta)
	}

	if got := byMsg["login rejected"]; got.Level != model.EventLevelError || got.Category != model.EventCategoryAuth {
		t.Errorf("unexpected error event %+v", got)
	}
}

func TestEventLogHandler_ExplicitCategoryAndAttrs(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("request.id", "abc")

	logger.Warn("something odd", "category", model.EventCategoryReview)

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryReview {
		t.Errorf("Category = %q, want review", events[0].Category)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["request.id"] != "abc" {
		t.Errorf("expected dotted key preserved, got %v", meta)
	}
	if _, ok := meta["category"]; ok {
		t.Error("category must not be repeated in metadata")
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))

	logger.Warn("cache miss storm")
	logger.Error("redis connection lost")

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryCache {
		t.Errorf("Category = %q, want cache", events[0].Category)
	}
}

func TestCategoryInference(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"admin logout failed", model.EventCategoryAuth},
		{"review submission rejected", model.EventCategoryReview},
		{"trek update failed", model.EventCategoryContent},
		{"server shutting down", model.EventCategorySystem},
	}
	for _, tt := range tests {
		if got := category(tt.msg, nil); got != tt.want {
			t.Errorf("category(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

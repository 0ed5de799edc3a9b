// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DishantGiri/jamjam/internal/model"
)

// testDB creates a migrated database in a temp dir.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "jamjam-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestMigrateCreatesTables(t *testing.T) {
	db := testDB(t)

	for _, table := range []string{"sessions", "events"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	// Running again is a no-op.
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestCreateAndListEvents(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, level := range []string{model.EventLevelWarning, model.EventLevelError, model.EventLevelWarning} {
		e, err := q.CreateEvent(ctx, CreateEventParams{
			Level:     level,
			Category:  model.EventCategoryBackend,
			Message:   "backend fetch failed",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
		if e.ID == 0 {
			t.Error("event ID should not be 0")
		}
		if e.Metadata != "{}" {
			t.Errorf("Metadata = %q, want {}", e.Metadata)
		}
	}

	all, err := q.ListEvents(ctx, ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if !all[0].CreatedAt.After(all[2].CreatedAt) {
		t.Error("events should be newest first")
	}

	errorsOnly, err := q.ListEvents(ctx, ListEventsParams{Level: model.EventLevelError, Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents(error): %v", err)
	}
	if len(errorsOnly) != 1 {
		t.Errorf("len = %d, want 1", len(errorsOnly))
	}

	n, err := q.CountEvents(ctx, model.EventLevelWarning)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if n != 2 {
		t.Errorf("CountEvents = %d, want 2", n)
	}
}

func TestCreateEventRejectsUnknownLevel(t *testing.T) {
	q := New(testDB(t))

	_, err := q.CreateEvent(context.Background(), CreateEventParams{
		Level: "debug", Category: "system", Message: "x", CreatedAt: time.Now(),
	})
	if err == nil {
		t.Fatal("expected CHECK constraint failure")
	}
}

func TestDeleteEventsBefore(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	for _, ts := range []time.Time{now.Add(-48 * time.Hour), now} {
		if _, err := q.CreateEvent(ctx, CreateEventParams{
			Level: model.EventLevelWarning, Category: "system", Message: "m", CreatedAt: ts,
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	removed, err := q.DeleteEventsBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

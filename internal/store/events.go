// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/DishantGiri/jamjam/internal/model"
)

// Queries runs the event log statements.
type Queries struct {
	db *sql.DB
}

// New returns Queries bound to db.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// CreateEventParams are the columns of a new event.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

const createEvent = `INSERT INTO events (level, category, message, metadata, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, level, category, message, metadata, created_at`

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	if arg.Metadata == "" {
		arg.Metadata = "{}"
	}
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt.UTC())
	var e model.Event
	if err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
		return model.Event{}, fmt.Errorf("creating event: %w", err)
	}
	return e, nil
}

// ListEventsParams filters ListEvents. An empty Level matches all levels.
type ListEventsParams struct {
	Level  string
	Limit  int64
	Offset int64
}

const listEvents = `SELECT id, level, category, message, metadata, created_at
FROM events
WHERE (? = '' OR level = ?)
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

// ListEvents returns events newest first.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, arg.Level, arg.Level, arg.Limit, arg.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return items, nil
}

const countEvents = `SELECT COUNT(*) FROM events WHERE (? = '' OR level = ?)`

func (q *Queries) CountEvents(ctx context.Context, level string) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, countEvents, level, level).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

const deleteEventsBefore = `DELETE FROM events WHERE created_at < ?`

// DeleteEventsBefore prunes events older than t and reports how many
// rows were removed.
func (q *Queries) DeleteEventsBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEventsBefore, t.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting events: %w", err)
	}
	return res.RowsAffected()
}

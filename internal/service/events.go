// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/DishantGiri/jamjam/internal/model"
	"github.com/DishantGiri/jamjam/internal/store"
)

// Event log paging limits.
const (
	DefaultEventLimit = 50
	MaxEventLimit     = 200
	EventRetention    = 30 * 24 * time.Hour
)

// EventService reads and prunes the event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// EventPage is one page of the event log.
type EventPage struct {
	Events []model.Event `json:"events"`
	Total  int64         `json:"total"`
	Limit  int64         `json:"limit"`
	Offset int64         `json:"offset"`
}

// Recent lists events newest first. An empty level lists all levels.
func (s *EventService) Recent(ctx context.Context, level string, limit, offset int64) (EventPage, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	limit = min(limit, MaxEventLimit)
	offset = max(offset, 0)

	events, err := s.queries.ListEvents(ctx, store.ListEventsParams{Level: level, Limit: limit, Offset: offset})
	if err != nil {
		return EventPage{}, err
	}
	total, err := s.queries.CountEvents(ctx, level)
	if err != nil {
		return EventPage{}, err
	}
	return EventPage{Events: events, Total: total, Limit: limit, Offset: offset}, nil
}

// Prune deletes events older than EventRetention.
func (s *EventService) Prune(ctx context.Context, now time.Time) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, now.Add(-EventRetention))
}

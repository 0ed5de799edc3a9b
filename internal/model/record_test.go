// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordGet(t *testing.T) {
	rec := Record{
		"title": "Annapurna",
		"status": map[string]any{
			"is_featured": true,
			"is_active":   nil,
		},
	}

	v, ok := rec.Get("status.is_featured")
	assert.True(t, ok)
	assert.Equal(t, true, v)

	_, ok = rec.Get("status.is_popular")
	assert.False(t, ok)

	_, ok = rec.Get("title.length")
	assert.False(t, ok, "cannot descend into a string")

	assert.True(t, rec.Has("status.is_active"), "null counts as defined")
	assert.False(t, rec.Has("booking.available_slots"))
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"zero", float64(0), false},
		{"one", float64(1), true},
		{"NaN", math.NaN(), false},
		{"empty string", "", false},
		{"zero string", "0", true},
		{"empty array", []any{}, true},
		{"empty object", map[string]any{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.in))
		})
	}
}

func TestNumber(t *testing.T) {
	n, ok := Number("4.5")
	assert.True(t, ok)
	assert.Equal(t, 4.5, n)

	_, ok = Number("five")
	assert.False(t, ok)

	_, ok = Number(nil)
	assert.False(t, ok)

	n, ok = Number(float64(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, n)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "1200", Stringify(float64(1200)))
	assert.Equal(t, "12.5", Stringify(12.5))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, `["a"]`, Stringify([]any{"a"}))
}

func TestRecordAccessors(t *testing.T) {
	rec := Record{
		"id":         float64(42),
		"image_urls": []any{"a.jpg", "b.jpg"},
		"duration":   map[string]any{"days": float64(5)},
	}

	assert.Equal(t, "42", rec.ID())
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, rec.Strings("image_urls"))
	assert.Nil(t, rec.Strings("images"))
	assert.Equal(t, "5", rec.FirstString("duration.days", "duration_days"))
	assert.Equal(t, "", rec.FirstString("nights", "duration_nights"))
}

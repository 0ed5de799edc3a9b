// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package itinerary recovers trek day lists from the backend's trek_days
// field, which has been stored as a proper array, as a JSON string, and as
// JSON strings encoded several times over.
package itinerary

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/DishantGiri/jamjam/internal/model"
)

// MaxDecodeAttempts bounds the decode loop against pathological escaping.
const MaxDecodeAttempts = 10

// DefaultDay is the single day a new or unreadable itinerary starts with.
const DefaultDay = "Day 1: "

// Default returns a fresh single-day itinerary.
func Default() []string {
	return []string{DefaultDay}
}

// Decode recovers the day list from a raw trek_days JSON value.
// It never fails; unusable input yields Default().
func Decode(raw json.RawMessage) []string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Default()
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Default()
	}
	return DecodeValue(v)
}

// DecodeValue recovers the day list from an already-decoded trek_days value.
func DecodeValue(v any) []string {
	if !model.Truthy(v) {
		return Default()
	}
	switch x := v.(type) {
	case []any:
		return decodeList(x)
	case []string:
		items := make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
		return decodeList(items)
	case string:
		return decodeString(x)
	default:
		return Default()
	}
}

// decodeList unwraps escaped elements of an array and passes the rest through.
func decodeList(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && looksEncoded(s) {
			out = append(out, text(unwrapElement(s)))
			continue
		}
		out = append(out, text(item))
	}
	if len(out) == 0 {
		return Default()
	}
	return out
}

func looksEncoded(s string) bool {
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, `"[`)
}

// unwrapElement decodes s until it stops being a string, the cap is hit or
// decoding fails. Arrays collapse to their first element.
func unwrapElement(s string) any {
	var cur any = s
	for attempts := MaxDecodeAttempts; attempts > 0; attempts-- {
		str, ok := cur.(string)
		if !ok {
			break
		}
		var parsed any
		if err := json.Unmarshal([]byte(str), &parsed); err != nil {
			break
		}
		if arr, ok := parsed.([]any); ok {
			if len(arr) > 0 {
				cur = arr[0]
			} else {
				cur = ""
			}
			continue
		}
		cur = parsed
	}
	return cur
}

// decodeString decodes s repeatedly and returns the first array it reaches.
func decodeString(s string) []string {
	var cur any = s
	for attempts := MaxDecodeAttempts; attempts > 0; attempts-- {
		str, ok := cur.(string)
		if !ok {
			break
		}
		var parsed any
		if err := json.Unmarshal([]byte(str), &parsed); err != nil {
			if strings.TrimSpace(str) != "" {
				return []string{str}
			}
			return Default()
		}
		if arr, ok := parsed.([]any); ok {
			if len(arr) == 0 {
				return Default()
			}
			out := make([]string, len(arr))
			for i, item := range arr {
				out[i] = text(item)
			}
			return out
		}
		cur = parsed
	}
	return Default()
}

func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return model.Stringify(v)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds the entity record type shared by the gateway and the
// helpers that read backend fields with the loose typing the backend uses.
package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Collection names as used by the remote API paths and envelopes.
const (
	CollectionTreks      = "treks"
	CollectionTours      = "tours"
	CollectionBlogs      = "blogs"
	CollectionReviews    = "reviews"
	CollectionActivities = "activities"
)

// Record is one backend entity. The gateway imposes no schema beyond the
// field names it reads and writes.
type Record map[string]any

// Get resolves a dotted path such as "status.is_featured".
// The second return value reports whether every segment was present.
func (r Record) Get(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether path is defined. A JSON null counts as defined.
func (r Record) Has(path string) bool {
	_, ok := r.Get(path)
	return ok
}

// Truthy reports whether the value at path is truthy.
func (r Record) Truthy(path string) bool {
	v, _ := r.Get(path)
	return Truthy(v)
}

// String returns the value at path rendered as text, or "" when absent or null.
func (r Record) String(path string) string {
	v, _ := r.Get(path)
	return Stringify(v)
}

// FirstString returns the first non-empty String among paths.
func (r Record) FirstString(paths ...string) string {
	for _, p := range paths {
		if s := r.String(p); s != "" {
			return s
		}
	}
	return ""
}

// Strings returns the string elements of the array at path.
// Non-array values yield nil; non-string elements are rendered as text.
func (r Record) Strings(path string) []string {
	v, _ := r.Get(path)
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		out = append(out, Stringify(item))
	}
	return out
}

// ID returns the entity id as text.
func (r Record) ID() string {
	return r.String("id")
}

// Truthy mirrors the loose truthiness the backend payloads were written
// against: nil, false, 0, NaN and "" are false; everything else is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}

// Number coerces v to a float64. Numeric strings are accepted; anything
// else reports false.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Stringify renders a decoded JSON value as form text.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	default:
		return nil, false
	}
}

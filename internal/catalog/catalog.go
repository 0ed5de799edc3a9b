// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog filters normalized trek and tour lists for the public
// listing pages.
package catalog

import (
	"net/url"
	"slices"
	"strings"

	"github.com/DishantGiri/jamjam/internal/model"
	"github.com/DishantGiri/jamjam/internal/stats"
)

// Trek types and difficulty buckets offered by the listing filters.
var (
	TrekTypes        = []string{"trek", "package"}
	TrekDifficulties = []string{"easy", "moderate", "hard"}
	TourDifficulties = []string{"easy", "moderate", "challenging", "extreme"}
)

// TrekFilter narrows a trek list. Empty slices do not filter.
type TrekFilter struct {
	FeaturedOnly bool
	Types        []string
	Difficulties []string
}

// TourFilter narrows a tour list. Empty slices do not filter.
type TourFilter struct {
	FeaturedOnly bool
	PopularOnly  bool
	Difficulties []string
}

// ParseTrekFilter reads ?featured=1&type=trek,package&difficulty=easy.
// Unknown values are dropped.
func ParseTrekFilter(q url.Values) TrekFilter {
	return TrekFilter{
		FeaturedOnly: flag(q.Get("featured")),
		Types:        listParam(q, "type", TrekTypes),
		Difficulties: listParam(q, "difficulty", TrekDifficulties),
	}
}

// ParseTourFilter reads ?featured=1&popular=1&difficulty=extreme.
func ParseTourFilter(q url.Values) TourFilter {
	return TourFilter{
		FeaturedOnly: flag(q.Get("featured")),
		PopularOnly:  flag(q.Get("popular")),
		Difficulties: listParam(q, "difficulty", TourDifficulties),
	}
}

// Apply filters treks, keeping the input order. The input is not modified.
func (f TrekFilter) Apply(treks []model.Record) []model.Record {
	out := make([]model.Record, 0, len(treks))
	for _, t := range treks {
		if f.FeaturedOnly && !t.Truthy("is_featured") {
			continue
		}
		if len(f.Types) > 0 && !slices.Contains(f.Types, strings.ToLower(t.String("data_type"))) {
			continue
		}
		if !matchesDifficulty(t.String("difficulty"), f.Difficulties) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Apply filters tours. Featured and popular flags may sit under status.
func (f TourFilter) Apply(tours []model.Record) []model.Record {
	out := make([]model.Record, 0, len(tours))
	for _, t := range tours {
		if f.FeaturedOnly && !stats.IsFeaturedTour(t) {
			continue
		}
		if f.PopularOnly && !IsPopularTour(t) {
			continue
		}
		if !matchesDifficulty(t.String("difficulty_level"), f.Difficulties) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// IsPopularTour checks the flat flag and then status.is_popular.
func IsPopularTour(t model.Record) bool {
	return t.Truthy("is_popular") || t.Truthy("status.is_popular")
}

// IsApprovedReview reports whether a review may be shown publicly.
func IsApprovedReview(r model.Record) bool {
	return stats.IsApproved(r)
}

// Approved keeps approved reviews only.
func Approved(reviews []model.Record) []model.Record {
	out := make([]model.Record, 0, len(reviews))
	for _, r := range reviews {
		if IsApprovedReview(r) {
			out = append(out, r)
		}
	}
	return out
}

// Head returns at most n leading records.
func Head(list []model.Record, n int) []model.Record {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

// matchesDifficulty matches by substring so "Moderate to Hard" counts for
// both buckets.
func matchesDifficulty(value string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	v := strings.ToLower(value)
	for _, d := range wanted {
		if strings.Contains(v, d) {
			return true
		}
	}
	return false
}

func listParam(q url.Values, key string, allowed []string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			p := strings.ToLower(strings.TrimSpace(part))
			if slices.Contains(allowed, p) && !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	return out
}

func flag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

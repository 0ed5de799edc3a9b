// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package stats computes the admin overview figures from normalized lists.
package stats

import (
	"math"

	"github.com/DishantGiri/jamjam/internal/model"
)

// Input holds the normalized lists the overview is computed from.
type Input struct {
	Treks   []model.Record
	Tours   []model.Record
	Blogs   []model.Record
	Reviews []model.Record
}

// Overview is the dashboard summary. Every field is computed independently.
type Overview struct {
	Treks           int     `json:"treks"`
	Tours           int     `json:"tours"`
	Blogs           int     `json:"blogs"`
	Reviews         int     `json:"reviews"`
	AvgRating       float64 `json:"avgRating"`
	ApprovedReviews int     `json:"approvedReviews"`
	PendingReviews  int     `json:"pendingReviews"`
	FeaturedTreks   int     `json:"featuredTreks"`
	FeaturedTours   int     `json:"featuredTours"`
	PublishedBlogs  int     `json:"publishedBlogs"`
}

// Compute builds the overview.
func Compute(in Input) Overview {
	return Overview{
		Treks:           len(in.Treks),
		Tours:           len(in.Tours),
		Blogs:           len(in.Blogs),
		Reviews:         len(in.Reviews),
		AvgRating:       AverageRating(in.Reviews),
		ApprovedReviews: countWhere(in.Reviews, IsApproved),
		PendingReviews:  countWhere(in.Reviews, IsPending),
		FeaturedTreks:   countWhere(in.Treks, func(r model.Record) bool { return r.Truthy("is_featured") }),
		FeaturedTours:   countWhere(in.Tours, IsFeaturedTour),
		PublishedBlogs:  countWhere(in.Blogs, func(r model.Record) bool { return r.Truthy("is_active") }),
	}
}

// IsFeaturedTour reports a truthy flat or nested is_featured flag.
func IsFeaturedTour(r model.Record) bool {
	return r.Truthy("is_featured") || r.Truthy("status.is_featured")
}

// IsApproved reports a review status of true or 1.
func IsApproved(r model.Record) bool {
	return statusIs(r, true)
}

// IsPending reports a review status of false or 0.
func IsPending(r model.Record) bool {
	return statusIs(r, false)
}

// statusIs matches the boolean encoding or its numeric 1/0 form. Strings
// such as "1" match neither.
func statusIs(r model.Record, want bool) bool {
	v, ok := r.Get("status")
	if !ok {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x == want
	case float64:
		if want {
			return x == 1
		}
		return x == 0
	default:
		return false
	}
}

// AverageRating is the mean of the truthy numeric ratings, rounded to one
// decimal place, or 0 when none exist.
func AverageRating(reviews []model.Record) float64 {
	var sum float64
	n := 0
	for _, r := range reviews {
		v, _ := r.Get("rating")
		if !model.Truthy(v) {
			continue
		}
		f, ok := model.Number(v)
		if !ok {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0
	}
	return RoundOne(sum / float64(n))
}

// RoundOne rounds half away from zero to one decimal place.
func RoundOne(f float64) float64 {
	return math.Round(f*10) / 10
}

func countWhere(list []model.Record, pred func(model.Record) bool) int {
	n := 0
	for _, r := range list {
		if pred(r) {
			n++
		}
	}
	return n
}

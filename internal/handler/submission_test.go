// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DishantGiri/jamjam/internal/form"
	"github.com/DishantGiri/jamjam/internal/model"
)

func parseTestSubmission(t *testing.T, values [][2]string, files [][2]string) *submission {
	t.Helper()
	body, ct := multipartBody(t, values, files)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)
	sub, err := parseSubmission(httptest.NewRecorder(), req, 1<<20)
	require.NoError(t, err)
	return sub
}

func TestSubmissionTrekDaysJSON(t *testing.T) {
	sub := parseTestSubmission(t, [][2]string{{"trek_days", `"[\"Day 1: Jiri\"]"`}}, nil)
	f := form.NewTrekForm()

	require.NoError(t, sub.apply(f))
	assert.Equal(t, []string{"Day 1: Jiri"}, f.Days)
}

func TestSubmissionTrekDaysEmptyList(t *testing.T) {
	sub := parseTestSubmission(t, [][2]string{{"trek_days", "[]"}}, nil)
	f := form.NewTrekForm()

	require.NoError(t, sub.apply(f))
	assert.Empty(t, f.Days)
	assert.Equal(t, []string{"[]"}, f.Payload().Values("trek_days"))
}

func TestSubmissionKeepsListsWhenAbsent(t *testing.T) {
	sub := parseTestSubmission(t, [][2]string{{"title", "Renamed"}}, nil)
	f := form.TrekFormFromRecord(model.Record{"id": float64(1), "trek_days": []any{"Day 1: A", "Day 2: B"}})

	require.NoError(t, sub.apply(f))
	assert.Equal(t, "Renamed", f.Title)
	assert.Equal(t, []string{"Day 1: A", "Day 2: B"}, f.Days)
}

func TestSubmissionContentJSON(t *testing.T) {
	sub := parseTestSubmission(t, [][2]string{{"content", `[{"heading":"H","paragraph":"P"}]`}}, nil)
	f := form.NewBlogForm()

	require.NoError(t, sub.apply(f))
	assert.Equal(t, []form.Section{{Heading: "H", Paragraph: "P"}}, f.Content)

	sub = parseTestSubmission(t, [][2]string{{"content", `not json`}}, nil)
	err := sub.apply(form.NewBlogForm())
	var serr *submissionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, fieldContent, serr.field)
}

func TestSubmissionUnevenSections(t *testing.T) {
	sub := parseTestSubmission(t, [][2]string{
		{"content[heading][]", "One"},
		{"content[heading][]", "Two"},
		{"content[paragraph][]", "First"},
	}, nil)
	f := form.NewBlogForm()

	require.NoError(t, sub.apply(f))
	assert.Equal(t, []form.Section{{Heading: "One", Paragraph: "First"}, {Heading: "Two"}}, f.Content)
}

func TestSubmissionRemoveExisting(t *testing.T) {
	rec := model.Record{"id": float64(3), "gallery_images": []any{"a.jpg", "b.jpg", "c.jpg"}}

	sub := parseTestSubmission(t, [][2]string{{"remove_existing[]", "0"}, {"remove_existing[]", "2"}, {"remove_existing[]", "2"}}, nil)
	f := form.TourFormFromRecord(rec)
	require.NoError(t, sub.apply(f))
	assert.Equal(t, []string{"b.jpg"}, f.Gallery.Existing)
	assert.ElementsMatch(t, []string{"a.jpg", "c.jpg"}, f.Gallery.Removed)

	sub = parseTestSubmission(t, [][2]string{{"remove_existing[]", "x"}}, nil)
	assert.Error(t, sub.apply(form.TourFormFromRecord(rec)))
}

func TestSubmissionFeaturedImageOnlyForTours(t *testing.T) {
	sub := parseTestSubmission(t, nil, [][2]string{{"featured_image", "hero.png"}})

	tour := form.NewTourForm()
	require.NoError(t, sub.apply(tour))
	require.NotNil(t, tour.FeaturedImage)
	assert.Equal(t, "hero.png", tour.FeaturedImage.Filename)
	assert.Equal(t, "image/png", tour.FeaturedImage.ContentType)

	trek := form.NewTrekForm()
	require.NoError(t, sub.apply(trek))
	assert.Empty(t, trek.Images.New)
}

func TestParseSubmissionURLEncoded(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"title": {"Plain"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	sub, err := parseSubmission(httptest.NewRecorder(), req, 1<<20)
	require.NoError(t, err)
	f := form.NewTourForm()
	require.NoError(t, sub.apply(f))
	assert.Equal(t, "Plain", f.Title)
}

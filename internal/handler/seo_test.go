// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DishantGiri/jamjam/internal/seo"
)

func TestSitemap(t *testing.T) {
	g := newGateway(t)

	resp, err := g.client.Get(g.url + "/sitemap.xml")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var sm seo.Sitemap
	require.NoError(t, xml.Unmarshal(body, &sm))

	var locs []string
	for _, u := range sm.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Contains(t, locs, "https://jamjam.example/treks/1")
	assert.Contains(t, locs, "https://jamjam.example/treks/2")
	assert.Contains(t, locs, "https://jamjam.example/tours/5")
	assert.Contains(t, locs, "https://jamjam.example/blogs/packing")
}

func TestRobots(t *testing.T) {
	g := newGateway(t)

	resp, err := g.client.Get(g.url + "/robots.txt")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Disallow: /admin")
	assert.Contains(t, string(body), "Sitemap: https://jamjam.example/sitemap.xml")
}

func TestSitemapDisabledWithoutSiteURL(t *testing.T) {
	h := NewSEOHandler(nil, "", true, nil)

	rec := httptest.NewRecorder()
	h.Sitemap(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Robots(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Equal(t, "User-agent: *\nDisallow: /\n", rec.Body.String())
}

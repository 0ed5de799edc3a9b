// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/DishantGiri/jamjam/internal/catalog"
	"github.com/DishantGiri/jamjam/internal/seo"
	"github.com/DishantGiri/jamjam/internal/service"
)

// SEOHandler serves sitemap.xml and robots.txt for the public site.
type SEOHandler struct {
	content     *service.ContentService
	siteURL     string
	disallowAll bool
	logger      *slog.Logger
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL disables the
// sitemap. disallowAll blocks every crawler in robots.txt.
func NewSEOHandler(content *service.ContentService, siteURL string, disallowAll bool, logger *slog.Logger) *SEOHandler {
	return &SEOHandler{content: content, siteURL: siteURL, disallowAll: disallowAll, logger: logger}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	if h.siteURL == "" {
		writeJSONError(w, http.StatusNotFound, msgNotFound)
		return
	}

	ctx := r.Context()
	out, err := seo.GenerateSitemap(h.siteURL, seo.Content{
		Treks: h.content.Treks(ctx, catalog.TrekFilter{}),
		Tours: h.content.Tours(ctx, catalog.TourFilter{}),
		Blogs: h.content.Blogs(ctx),
	})
	if err != nil {
		h.logger.Error("failed to build sitemap", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to build sitemap")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.RobotsConfig{SiteURL: h.siteURL, DisallowAll: h.disallowAll})))
}

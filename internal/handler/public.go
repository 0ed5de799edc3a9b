// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/DishantGiri/jamjam/internal/catalog"
	"github.com/DishantGiri/jamjam/internal/model"
	"github.com/DishantGiri/jamjam/internal/service"
)

// PublicHandler serves the visitor-facing listings.
type PublicHandler struct {
	content *service.ContentService
	logger  *slog.Logger
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(content *service.ContentService, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{content: content, logger: logger}
}

// Routes mounts the public API.
func (h *PublicHandler) Routes(r chi.Router) {
	r.Get("/home", h.Home)
	r.Get("/treks", h.Treks)
	r.Get("/tours", h.Tours)
	r.Get("/tours/{id}", h.Tour)
	r.Get("/blogs", h.Blogs)
	r.Get("/blogs/{slug}", h.Blog)
	r.Get("/activities", h.Activities)
	r.Get("/reviews", h.Reviews)
	r.Post("/reviews", h.SubmitReview)
}

// Home handles GET /api/home.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.content.Home(r.Context()))
}

// Treks handles GET /api/treks.
func (h *PublicHandler) Treks(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.content.Treks(r.Context(), catalog.ParseTrekFilter(r.URL.Query())))
}

// Tours handles GET /api/tours.
func (h *PublicHandler) Tours(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.content.Tours(r.Context(), catalog.ParseTourFilter(r.URL.Query())))
}

// Tour handles GET /api/tours/{id}.
func (h *PublicHandler) Tour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.content.Tour(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeData(w, tour)
}

// Blogs handles GET /api/blogs.
func (h *PublicHandler) Blogs(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.content.Blogs(r.Context()))
}

// Blog handles GET /api/blogs/{slug}.
func (h *PublicHandler) Blog(w http.ResponseWriter, r *http.Request) {
	post, err := h.content.Blog(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeData(w, post)
}

// Activities handles GET /api/activities.
func (h *PublicHandler) Activities(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.content.Activities(r.Context()))
}

// Reviews handles GET /api/reviews. Only approved reviews are listed.
func (h *PublicHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.content.Reviews(r.Context()))
}

// SubmitReview handles POST /api/reviews with a JSON or form body.
func (h *PublicHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var in service.ReviewInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		in = service.ReviewInput{
			Name:   r.PostForm.Get("name"),
			Email:  r.PostForm.Get("email"),
			Review: r.PostForm.Get("review"),
		}
		if n, ok := model.Number(r.PostForm.Get("rating")); ok {
			in.Rating = int(n)
		}
	}

	if err := h.content.SubmitReview(r.Context(), in); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Thank you! Your review will appear once approved.",
	})
}

// writeList wraps a record list with its count.
func writeList(w http.ResponseWriter, list []model.Record) {
	writeJSONSuccess(w, map[string]any{"data": list, "count": len(list)})
}

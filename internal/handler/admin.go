// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/DishantGiri/jamjam/internal/form"
	"github.com/DishantGiri/jamjam/internal/model"
	"github.com/DishantGiri/jamjam/internal/service"
	"github.com/DishantGiri/jamjam/internal/session"
)

// entity describes one editable collection.
type entity struct {
	collection string
	label      string
	blank      func() form.Form
	seed       func(model.Record) form.Form
}

var editable = []entity{
	{
		collection: model.CollectionTreks,
		label:      "Trek",
		blank:      func() form.Form { return form.NewTrekForm() },
		seed:       func(r model.Record) form.Form { return form.TrekFormFromRecord(r) },
	},
	{
		collection: model.CollectionTours,
		label:      "Tour",
		blank:      func() form.Form { return form.NewTourForm() },
		seed:       func(r model.Record) form.Form { return form.TourFormFromRecord(r) },
	},
	{
		collection: model.CollectionBlogs,
		label:      "Blog",
		blank:      func() form.Form { return form.NewBlogForm() },
		seed:       func(r model.Record) form.Form { return form.BlogFormFromRecord(r) },
	},
}

// AdminHandler serves the dashboard API. Every route expects the admin
// placed in the context by middleware.RequireAdmin.
type AdminHandler struct {
	content   *service.ContentService
	events    *service.EventService
	maxUpload int64
	logger    *slog.Logger
}

// NewAdminHandler creates a new AdminHandler. maxUpload bounds multipart
// submissions in bytes.
func NewAdminHandler(content *service.ContentService, events *service.EventService, maxUpload int64, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{content: content, events: events, maxUpload: maxUpload, logger: logger}
}

// Routes mounts the gated dashboard routes.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Get("/overview", h.Overview)

	for _, e := range editable {
		r.Route("/"+e.collection, func(r chi.Router) {
			r.Get("/", h.list(e.collection))
			r.Post("/", h.create(e))
			r.Get("/new", h.newForm(e))
			r.Get("/{id}/form", h.editForm(e))
			r.Put("/{id}", h.update(e))
			r.Post("/{id}", h.update(e))
			r.Delete("/{id}", h.delete(e))
		})
	}

	r.Get("/reviews", h.list(model.CollectionReviews))
	r.Put("/reviews/{id}/approve", h.ApproveReview)
	r.Delete("/reviews/{id}", h.DeleteReview)
	r.Get("/activities", h.list(model.CollectionActivities))
	r.Get("/events", h.Events)
}

func token(r *http.Request) string {
	return session.AdminFrom(r.Context()).Token
}

// Overview handles GET /admin/overview.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.content.Overview(r.Context(), token(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeData(w, ov)
}

func (h *AdminHandler) list(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.content.AdminList(r.Context(), token(r), collection)
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeList(w, list)
	}
}

func (h *AdminHandler) newForm(e entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSONSuccess(w, map[string]any{"form": e.blank()})
	}
}

func (h *AdminHandler) editForm(e entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.content.AdminRecord(r.Context(), token(r), e.collection, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSONSuccess(w, map[string]any{"form": e.seed(rec)})
	}
}

func (h *AdminHandler) create(e entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.save(w, r, e, e.blank(), http.StatusCreated, e.label+" created successfully")
	}
}

func (h *AdminHandler) update(e entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.content.AdminRecord(r.Context(), token(r), e.collection, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		h.save(w, r, e, e.seed(rec), http.StatusOK, e.label+" updated successfully")
	}
}

func (h *AdminHandler) save(w http.ResponseWriter, r *http.Request, e entity, f form.Form, status int, msg string) {
	sub, err := parseSubmission(w, r, h.maxUpload)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Upload is too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := sub.apply(f); err != nil {
		var serr *submissionError
		if errors.As(err, &serr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   msgValidation,
				"fields":  map[string]string{serr.field: serr.msg},
			})
			return
		}
		h.logger.Error("failed to read submission", "collection", e.collection, "error", err)
		writeJSONError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	resp, err := h.content.Save(r.Context(), token(r), e.collection, f)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	out := map[string]any{"success": true, "message": msg}
	if json.Valid(resp) {
		out["data"] = json.RawMessage(resp)
	}
	writeJSON(w, status, out)
}

func (h *AdminHandler) delete(e entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.content.Delete(r.Context(), token(r), e.collection, chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSONSuccess(w, map[string]any{"message": e.label + " deleted successfully"})
	}
}

// ApproveReview handles PUT /admin/reviews/{id}/approve.
func (h *AdminHandler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	if err := h.content.ApproveReview(r.Context(), token(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"message": "Review approved"})
}

// DeleteReview handles DELETE /admin/reviews/{id}.
func (h *AdminHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteReview(r.Context(), token(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"message": "Review deleted"})
}

// Events handles GET /admin/events?level=warning&limit=50&offset=0.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	level := strings.ToLower(q.Get("level"))
	switch level {
	case "", model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError:
	default:
		writeJSONError(w, http.StatusBadRequest, "Unknown level")
		return
	}
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	offset, _ := strconv.ParseInt(q.Get("offset"), 10, 64)

	page, err := h.events.Recent(r.Context(), level, limit, offset)
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	writeData(w, page)
}

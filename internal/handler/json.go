// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the gateway's HTTP handlers. Every response is
// JSON with a boolean "success" and, on failure, an "error" message.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DishantGiri/jamjam/internal/backend"
	"github.com/DishantGiri/jamjam/internal/service"
)

// Messages shown for failures the backend did not describe.
const (
	msgInvalidBody = "Invalid request body"
	msgValidation  = "Please correct the highlighted fields"
	msgNotFound    = "Not found"
	msgUnavailable = "The service is temporarily unavailable. Please try again."
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeJSONSuccess writes a JSON success response.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	data["success"] = true
	writeJSON(w, http.StatusOK, data)
}

// writeData wraps v as {"success":true,"data":v}.
func writeData(w http.ResponseWriter, v any) {
	writeJSONSuccess(w, map[string]any{"data": v})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

// writeServiceError maps service and backend errors onto responses.
// Backend messages are passed through; anything else is logged and
// replaced with a generic message.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		verr   *service.ValidationError
		apiErr *backend.APIError
	)
	switch {
	case errors.Is(err, backend.ErrNotAuthenticated):
		writeJSONError(w, http.StatusUnauthorized, backend.MsgAuthRequired)
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"error":   msgValidation,
			"fields":  verr.Fields,
		})
	case errors.Is(err, service.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, msgNotFound)
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		writeJSONError(w, status, apiErr.Message)
	case errors.Is(err, context.DeadlineExceeded):
		writeJSONError(w, http.StatusGatewayTimeout, msgUnavailable)
	default:
		logger.Error("backend request failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, msgUnavailable)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the gateway: the admin
// session gate, rate limiting, request timeouts, CORS and security headers.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/DishantGiri/jamjam/internal/backend"
	"github.com/DishantGiri/jamjam/internal/session"
)

// RequireAdmin rejects requests without an authenticated admin session and
// stores the admin in the request context for the handlers behind it.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := session.Load(r.Context(), sm)
			if !admin.Authenticated() {
				writeError(w, http.StatusUnauthorized, backend.MsgAuthRequired)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithAdmin(r.Context(), admin)))
		})
	}
}

// writeError writes the gateway's JSON error envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

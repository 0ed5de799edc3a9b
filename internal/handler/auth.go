// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/dustin/go-humanize"

	"github.com/DishantGiri/jamjam/internal/backend"
	"github.com/DishantGiri/jamjam/internal/middleware"
	"github.com/DishantGiri/jamjam/internal/model"
	"github.com/DishantGiri/jamjam/internal/session"
)

// Messages returned by the login flow.
const (
	msgCredentials  = "Email and password are required"
	msgNotAdmin     = "Access denied. Admin privileges required."
	msgLoginFailed  = "Invalid email or password"
	msgLoggedOut    = "Logged out"
	msgSessionEnded = "Your session has ended. Please log in again."
)

// Authenticator is the part of the backend client that handles tokens.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Verify(ctx context.Context, token string) (bool, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles admin login, logout and session checks.
type AuthHandler struct {
	sm      *scs.SessionManager
	auth    Authenticator
	protect *middleware.LoginProtection
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sm *scs.SessionManager, auth Authenticator, protect *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sm: sm, auth: auth, protect: protect, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /admin/login. The token is only stored once the
// backend confirms it belongs to an admin.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		req = loginRequest{Email: r.PostForm.Get("email"), Password: r.PostForm.Get("password")}
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, msgCredentials)
		return
	}

	if locked, remaining := h.protect.IsLocked(req.Email); locked {
		writeJSONError(w, http.StatusTooManyRequests, lockedMessage(remaining))
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.loginFailed(w, req.Email, err)
		return
	}

	ok, err := h.auth.Verify(r.Context(), token)
	if err != nil {
		h.loginFailed(w, req.Email, err)
		return
	}
	if !ok {
		h.protect.RecordFailure(req.Email)
		h.logger.Warn("non-admin login rejected", "email", req.Email, "category", model.EventCategoryAuth)
		writeJSONError(w, http.StatusForbidden, msgNotAdmin)
		return
	}

	if err := session.Login(r.Context(), h.sm, req.Email, token); err != nil {
		h.logger.Error("failed to store session", "error", err, "category", model.EventCategoryAuth)
		writeJSONError(w, http.StatusInternalServerError, msgUnavailable)
		return
	}
	h.protect.RecordSuccess(req.Email)
	h.logger.Info("admin logged in", "email", req.Email)

	writeJSONSuccess(w, map[string]any{"email": req.Email})
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, email string, err error) {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) && !errors.Is(err, backend.ErrNoToken) {
		writeServiceError(w, h.logger, err)
		return
	}

	msg := msgLoginFailed
	if apiErr != nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	if locked, d := h.protect.RecordFailure(email); locked {
		writeJSONError(w, http.StatusTooManyRequests, lockedMessage(d))
		return
	}
	h.logger.Warn("admin login failed", "email", email, "error", err, "category", model.EventCategoryAuth)
	writeJSONError(w, http.StatusUnauthorized, msg)
}

// lockedMessage tells a locked-out admin when to retry, e.g.
// "Try again 15 minutes from now."
func lockedMessage(remaining time.Duration) string {
	// The extra second keeps humanize from rounding 15m down to 14m.
	return fmt.Sprintf("Too many failed attempts. Try again %s.",
		humanize.Time(time.Now().Add(remaining+time.Second)))
}

// Logout handles POST /admin/logout. The backend is told to revoke the
// token, but the local session is cleared even when that fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	admin := session.Load(r.Context(), h.sm)
	if admin.Token != "" {
		if err := h.auth.Logout(r.Context(), admin.Token); err != nil {
			h.logger.Warn("backend logout failed", "error", err, "category", model.EventCategoryAuth)
		}
	}
	if err := session.Clear(r.Context(), h.sm); err != nil {
		h.logger.Error("failed to clear session", "error", err)
	}
	writeJSONSuccess(w, map[string]any{"message": msgLoggedOut})
}

// Session handles GET /admin/session. It re-verifies the stored token and
// clears the session when the backend rejects it.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	admin := session.Load(r.Context(), h.sm)
	if !admin.Authenticated() {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success":  false,
			"loggedIn": false,
			"error":    backend.MsgAuthRequired,
		})
		return
	}

	ok, err := h.auth.Verify(r.Context(), admin.Token)
	var apiErr *backend.APIError
	if err != nil && !errors.As(err, &apiErr) {
		writeServiceError(w, h.logger, err)
		return
	}
	if err != nil || !ok {
		if cerr := session.Clear(r.Context(), h.sm); cerr != nil {
			h.logger.Error("failed to clear session", "error", cerr)
		}
		h.logger.Warn("admin session rejected by backend", "email", admin.Email, "category", model.EventCategoryAuth)
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success":  false,
			"loggedIn": false,
			"error":    msgSessionEnded,
		})
		return
	}

	writeJSONSuccess(w, map[string]any{"loggedIn": true, "email": admin.Email})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps the admin login state server-side and hands it to
// handlers as an explicit Admin value.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyLoggedIn = "isAdminLoggedIn"
	KeyToken    = "authToken"
	KeyEmail    = "adminEmail"
)

// Admin is the login state of the current browser session.
type Admin struct {
	LoggedIn bool   `json:"loggedIn"`
	Token    string `json:"-"`
	Email    string `json:"email,omitempty"`
}

// Authenticated reports whether a backend call can be made on the admin's
// behalf.
func (a Admin) Authenticated() bool {
	return a.LoggedIn && a.Token != ""
}

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.Name = "jamjam_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-jamjam_session"
	}

	return sm
}

// Load reads the admin state from the session.
func Load(ctx context.Context, sm *scs.SessionManager) Admin {
	return Admin{
		LoggedIn: sm.GetBool(ctx, KeyLoggedIn),
		Token:    sm.GetString(ctx, KeyToken),
		Email:    sm.GetString(ctx, KeyEmail),
	}
}

// Login stores a successful login and renews the session token.
func Login(ctx context.Context, sm *scs.SessionManager, email, token string) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyLoggedIn, true)
	sm.Put(ctx, KeyToken, token)
	sm.Put(ctx, KeyEmail, email)
	return nil
}

// Clear removes the admin state and destroys the session.
func Clear(ctx context.Context, sm *scs.SessionManager) error {
	sm.Remove(ctx, KeyLoggedIn)
	sm.Remove(ctx, KeyToken)
	sm.Remove(ctx, KeyEmail)
	return sm.Destroy(ctx)
}

type contextKey struct{}

// WithAdmin places a onto ctx.
func WithAdmin(ctx context.Context, a Admin) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// AdminFrom returns the Admin placed by WithAdmin, or the zero value.
func AdminFrom(ctx context.Context) Admin {
	a, _ := ctx.Value(contextKey{}).(Admin)
	return a
}

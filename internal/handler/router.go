// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/DishantGiri/jamjam/internal/middleware"
)

// Request limits applied by the router.
const (
	requestTimeout  = 30 * time.Second
	hstsMaxAge      = 31536000
	reviewRateLimit = 0.2
	reviewBurst     = 3
)

// RouterConfig holds everything the router mounts.
type RouterConfig struct {
	IsDevelopment bool
	CORSOrigins   []string
	Sessions      *scs.SessionManager
	Public        *PublicHandler
	Admin         *AdminHandler
	Auth          *AuthHandler
	Health        *HealthHandler
	SEO           *SEOHandler
	Login         *middleware.LoginProtection
}

// NewRouter builds the gateway's route tree:
//
//	/health            liveness and status
//	/sitemap.xml       public sitemap, /robots.txt alongside
//	/api/...           public listings, CORS enabled
//	/admin/...         session-gated dashboard API
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.SecurityHeaders(cfg.IsDevelopment, hstsMaxAge))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(cfg.Sessions.LoadAndSave)

	r.Get("/health", cfg.Health.Health)
	r.Get("/health/live", cfg.Health.Liveness)
	r.Get("/health/ready", cfg.Health.Readiness)
	r.Get("/sitemap.xml", cfg.SEO.Sitemap)
	r.Get("/robots.txt", cfg.SEO.Robots)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(reviewRateLimit, reviewBurst))
		cfg.Public.Routes(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(cfg.Login.Middleware()).Post("/login", cfg.Auth.Login)
		r.Post("/logout", cfg.Auth.Logout)
		r.Get("/session", cfg.Auth.Session)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.Sessions))
			cfg.Admin.Routes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

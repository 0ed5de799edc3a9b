// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/dustin/go-humanize"

	"github.com/DishantGiri/jamjam/internal/cache"
	"github.com/DishantGiri/jamjam/internal/session"
	"github.com/DishantGiri/jamjam/internal/version"
)

// Health states.
const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// CacheStatser reports response cache counters.
type CacheStatser interface {
	CacheStats() (cache.Stats, bool)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	sm        *scs.SessionManager
	cache     CacheStatser
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, sm *scs.SessionManager, c CacheStatser, v version.Info) *HealthHandler {
	return &HealthHandler{
		db:        db,
		sm:        sm,
		cache:     c,
		version:   v,
		startTime: time.Now(),
	}
}

// HealthStatus is the full health report shown to admins.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Started   string           `json:"started"`
	Version   version.Info     `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Cache     *CacheInfo       `json:"cache,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// CacheInfo summarises the response cache.
type CacheInfo struct {
	Backend string  `json:"backend"`
	Items   string  `json:"items"`
	HitRate float64 `json:"hit_rate"`
}

// SystemInfo contains runtime figures.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health. Anonymous callers only get the status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())

	code := http.StatusOK
	if dbCheck.Status == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	if !h.isAdmin(r) {
		writeJSON(w, code, map[string]string{"status": dbCheck.Status})
		return
	}

	status := HealthStatus{
		Status:    dbCheck.Status,
		Timestamp: time.Now().UTC(),
		Started:   humanize.Time(h.startTime),
		Version:   h.version,
		Checks:    map[string]Check{"database": dbCheck},
	}
	if st, ok := h.cache.CacheStats(); ok {
		status.Cache = &CacheInfo{
			Backend: st.Backend,
			Items:   humanize.Comma(int64(st.Items)),
			HitRate: st.HitRate,
		}
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = systemInfo()
	}
	writeJSON(w, code, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.checkDatabase(r.Context()).Status == statusUnhealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// isAdmin reports whether the request carries an admin session. It is
// false when the session middleware has not loaded the session.
func (h *HealthHandler) isAdmin(r *http.Request) (ok bool) {
	if h.sm == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
		}
	}()
	return session.Load(r.Context(), h.sm).Authenticated()
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency.String()}
	}
	if latency > time.Second {
		return Check{Status: statusDegraded, Message: "Slow", Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Message: "Connected", Latency: latency.String()}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		MemAlloc:     humanize.IBytes(m.Alloc),
		MemSys:       humanize.IBytes(m.Sys),
	}
}

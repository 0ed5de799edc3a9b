// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DishantGiri/jamjam/internal/backend"
	"github.com/DishantGiri/jamjam/internal/cache"
	"github.com/DishantGiri/jamjam/internal/config"
	"github.com/DishantGiri/jamjam/internal/handler"
	"github.com/DishantGiri/jamjam/internal/logging"
	"github.com/DishantGiri/jamjam/internal/middleware"
	"github.com/DishantGiri/jamjam/internal/scheduler"
	"github.com/DishantGiri/jamjam/internal/service"
	"github.com/DishantGiri/jamjam/internal/session"
	"github.com/DishantGiri/jamjam/internal/store"
	"github.com/DishantGiri/jamjam/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = ""
	appBuildTime = ""
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "jamjam - travel agency back-office gateway\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JAMJAM_API_BASE_URL    Remote API base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JAMJAM_DB_PATH         SQLite database path (default: ./data/jamjam.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JAMJAM_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JAMJAM_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JAMJAM_REDIS_URL       Redis URL for a shared response cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JAMJAM_CORS_ORIGINS    Comma-separated browser origins (default: *)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JAMJAM_SITE_URL        Public site URL for sitemap.xml (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(info version.Info) error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLevel(cfg.LogLevel)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// From here on WARN and ERROR records also land in the event log.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	responseCache := cache.New(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
		MaxEntries: cfg.CacheMaxSize,
	}, logger)
	defer func() {
		if err := responseCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	client := backend.New(backend.Config{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.APITimeout,
		Retries:        cfg.APIRetries,
		MethodOverride: cfg.MethodOverride,
	}, logger)

	content := service.NewContentService(client, responseCache, cfg.CacheTTL, logger)
	events := service.NewEventService(db)
	sm := session.New(db, cfg.IsDevelopment())
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	jobs := scheduler.New(logger)
	if err := registerJobs(jobs, content, events, loginProtection); err != nil {
		return err
	}
	jobs.Start()
	defer jobs.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		IsDevelopment: cfg.IsDevelopment(),
		CORSOrigins:   cfg.CORSOrigins,
		Sessions:      sm,
		Public:        handler.NewPublicHandler(content, logger),
		Admin:         handler.NewAdminHandler(content, events, cfg.MaxUploadBytes(), logger),
		Auth:          handler.NewAuthHandler(sm, client, loginProtection, logger),
		Health:        handler.NewHealthHandler(db, sm, content, info),
		SEO:           handler.NewSEOHandler(content, cfg.SiteURL, !cfg.IsProduction(), logger),
		Login:         loginProtection,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads are forwarded to the backend
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "backend", client.BaseURL(), "version", info.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// registerJobs schedules event log pruning, lockout table pruning and a
// periodic refresh of the home page listings.
func registerJobs(s *scheduler.Scheduler, content *service.ContentService, events *service.EventService, lp *middleware.LoginProtection) error {
	if err := s.Add("prune-events", "@daily", func(ctx context.Context) error {
		n, err := events.Prune(ctx, time.Now())
		if err != nil {
			return err
		}
		slog.Info("pruned event log", "deleted", n)
		return nil
	}); err != nil {
		return err
	}

	if err := s.Add("prune-login-attempts", "@every 10m", func(context.Context) error {
		lp.Prune()
		return nil
	}); err != nil {
		return err
	}

	return s.Add("warm-home", "@every 5m", func(ctx context.Context) error {
		content.Home(ctx)
		return nil
	})
}

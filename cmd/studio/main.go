// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Command studio runs the marketing-site backend and admin dashboard API.
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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/calyptra/studio-go/internal/cache"
	"github.com/calyptra/studio-go/internal/config"
	"github.com/calyptra/studio-go/internal/content"
	"github.com/calyptra/studio-go/internal/geoip"
	"github.com/calyptra/studio-go/internal/handler/api"
	"github.com/calyptra/studio-go/internal/logging"
	"github.com/calyptra/studio-go/internal/middleware"
	"github.com/calyptra/studio-go/internal/scheduler"
	"github.com/calyptra/studio-go/internal/service"
	"github.com/calyptra/studio-go/internal/session"
	"github.com/calyptra/studio-go/internal/store"
	"github.com/calyptra/studio-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Calyptra Studio - marketing site backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_DB_DRIVER        Storage driver: sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_DB_DSN           Database path or DSN (default: ./data/studio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_CONTENT_BASE_URL Headless CMS base URL (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_REDIS_URL        Redis URL for the content cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_GEOIP_DB_PATH    GeoLite2-Country database path (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("studio %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logging.Setup(cfg.LogLevel, cfg.IsDevelopment())

	// Ensure the data directory exists for the file-based store
	if cfg.DBDriver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	dbCfg := store.DefaultDBConfig(cfg.DBDSN)
	dbCfg.Driver = cfg.DBDriver
	store.SetGlobalConfig(dbCfg)

	slog.Info("initializing database", "driver", cfg.DBDriver, "dsn", cfg.DBDSN)
	db, err := store.Global()
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := store.Shutdown(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()
	slog.Info("database ready")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	queries := store.NewWithDialect(db, cfg.DBDriver)

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Content proxy with its cache backend (Redis when configured)
	var contentProxy *content.Proxy
	if cfg.ContentProxyEnabled() {
		ttl := time.Duration(cfg.ContentCacheTTL) * time.Second

		var contentCache cache.Cache
		if cfg.UseRedisCache() {
			contentCache, err = cache.NewRedisCache(cfg.RedisURL, cfg.CachePrefix, ttl)
			if err != nil {
				slog.Warn("redis unavailable, using in-memory content cache", "error", err)
				contentCache = cache.NewMemoryCache(ttl)
			} else {
				slog.Info("content cache initialized", "backend", "redis")
			}
		} else {
			contentCache = cache.NewMemoryCache(ttl)
			slog.Info("content cache initialized", "backend", "memory")
		}
		defer func() { _ = contentCache.Close() }()

		contentProxy, err = content.New(cfg.ContentBaseURL, contentCache, ttl)
		if err != nil {
			return fmt.Errorf("initializing content proxy: %w", err)
		}
		slog.Info("content proxy initialized", "base_url", cfg.ContentBaseURL)
	}

	// GeoIP lookup for visit enrichment; degrades to disabled when no
	// database file is configured.
	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		return fmt.Errorf("opening geoip database: %w", err)
	}
	defer func() { _ = geo.Close() }()
	if cfg.GeoIPDBPath != "" {
		slog.Info("geoip lookup initialized", "path", cfg.GeoIPDBPath)
	}

	projectService := service.NewProjectService(db, queries)
	userService := service.NewUserService(db, queries)
	analyticsService := service.NewAnalyticsService(queries)
	visitService := service.NewVisitService(queries, geo)

	sched := scheduler.New(db, cfg.DBDriver, cfg.VisitRetentionDays, slog.Default())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	apiHandler := api.NewHandler(
		sessionManager,
		projectService,
		userService,
		analyticsService,
		visitService,
		contentProxy,
		versionInfo,
	)

	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Use(sessionManager.LoadAndSave)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized")

	// 20 req/s with burst 40 per client IP across the whole API
	rateLimiter := middleware.NewRateLimiter(20, 40)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimiter.Middleware())
		// The tracking endpoint is called cross-origin from the marketing
		// site and stays outside CSRF protection.
		r.Use(middleware.SkipCSRF("/api/v1/visits"))
		r.Use(csrfMiddleware)
		r.Use(middleware.LoadUser(sessionManager, queries))

		// Public endpoints
		r.Get("/status", apiHandler.Status)
		r.Post("/visits", apiHandler.TrackVisit)
		r.Get("/content/*", apiHandler.Content)
		r.Post("/auth/login", apiHandler.Login)

		// Authenticated endpoints; per-capability authorization happens in
		// the service layer.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth())

			r.Get("/auth/me", apiHandler.Me)
			r.Post("/auth/logout", apiHandler.Logout)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", apiHandler.ListProjects)
				r.Post("/", apiHandler.CreateProject)
				r.Get("/{slug}", apiHandler.GetProject)
				r.Patch("/{slug}", apiHandler.UpdateProject)
				r.Delete("/{slug}", apiHandler.DeleteProject)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", apiHandler.ListUsers)
				r.Post("/", apiHandler.CreateUser)
				r.Get("/{id}", apiHandler.GetUser)
				r.Patch("/{id}", apiHandler.UpdateUser)
				r.Delete("/{id}", apiHandler.DeleteUser)
			})

			r.Get("/analytics", apiHandler.Analytics)
		})
	})
	slog.Info("REST API v1 mounted at /api/v1")

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
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

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"

	"github.com/olegiv/quill/internal/config"
	"github.com/olegiv/quill/internal/handler"
	"github.com/olegiv/quill/internal/logging"
	"github.com/olegiv/quill/internal/middleware"
	"github.com/olegiv/quill/internal/render"
	"github.com/olegiv/quill/internal/service"
	"github.com/olegiv/quill/internal/session"
	"github.com/olegiv/quill/internal/store"
	"github.com/olegiv/quill/internal/version"
	"github.com/olegiv/quill/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Quill - a small blog with comments\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_DB_PATH           SQLite database path (default: ./data/quill.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_SERVER_HOST       Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_LOG_LEVEL         debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_ADMIN_USER_ID     Account allowed to manage posts (default: 1)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_REDIS_URL         Redis URL for the session store (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_SESSION_LIFETIME  Session lifetime (default: 24h)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_ADMIN_EMAIL       First-run admin email (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_ADMIN_PASSWORD    First-run admin password (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  QUILL_ADMIN_NAME        First-run admin display name (default: Admin)\n")
	}

	flag.Parse()

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	slog.Info("starting quill", versionInfo.LogAttrs()...)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	ctx := context.Background()
	repo := store.NewRepository(db)

	if cfg.SeedAdmin() {
		if err := store.SeedAdmin(ctx, repo, store.AdminSeed{
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
			Name:     cfg.AdminName,
		}); err != nil {
			return fmt.Errorf("seeding admin: %w", err)
		}
	}

	sessionManager, closeSessions, err := newSessionManager(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeSessions()

	policy := service.NewPolicy(cfg.AdminUserID)
	authService := service.NewAuthService(repo, sessionManager, logger)
	postService := service.NewPostService(repo, policy, logger)

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.Templates(),
		ContentFS:      web.Content(),
		SessionManager: sessionManager,
		Policy:         policy,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.Port())
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	router := handler.NewRouter(handler.RouterConfig{
		DB:       db,
		Sessions: sessionManager,
		Renderer: renderer,
		Auth:     authService,
		Posts:    postService,
		Policy:   policy,
		CSRF:     csrfConfig,
		IsDev:    cfg.IsDevelopment(),
		Static:   web.Static(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "admin_user_id", policy.AdminID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
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

// newSessionManager keeps sessions in Redis when a URL is configured and
// in the SQLite database otherwise. The returned func releases the store.
func newSessionManager(ctx context.Context, cfg *config.Config, db *sql.DB) (*scs.SessionManager, func(), error) {
	opts := session.Options{
		IsDev:    cfg.IsDevelopment(),
		Lifetime: cfg.SessionLifetime,
	}

	if !cfg.UseRedisSessions() {
		slog.Info("session manager initialized", "store", "sqlite")
		return session.New(db, opts), func() {}, nil
	}

	client, err := session.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	opts.Store = session.NewRedisStore(client, session.DefaultRedisPrefix)
	slog.Info("session manager initialized", "store", "redis")

	return session.New(db, opts), func() {
		if err := client.Close(); err != nil {
			slog.Error("error closing redis client", "error", err)
		}
	}, nil
}

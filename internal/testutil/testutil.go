// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for quill.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/quill/internal/auth"
	"github.com/olegiv/quill/internal/session"
	"github.com/olegiv/quill/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// The database is closed when the test finishes.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "quill-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// TestRepo returns a Repository over a fresh test database.
func TestRepo(t *testing.T) (*store.Repository, *sql.DB) {
	t.Helper()
	db := TestDB(t)
	return store.NewRepository(db), db
}

// TestSessions returns a development session manager backed by memory.
func TestSessions() *scs.SessionManager {
	return session.New(nil, session.Options{
		IsDev: true,
		Store: memstore.NewWithCleanupInterval(0),
	})
}

// SessionContext loads an empty session into a background context so
// session-aware code can run outside an HTTP request.
func SessionContext(t *testing.T, sm *scs.SessionManager) context.Context {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return ctx
}

// CreateUser inserts a user with a real password hash.
func CreateUser(t *testing.T, repo *store.Repository, email, name, password string) store.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user, err := repo.CreateUser(context.Background(), email, hash, name)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return user
}

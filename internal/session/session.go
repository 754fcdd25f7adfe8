// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session manager and keeps
// the keys the rest of the application stores in a session.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyUserID    = "user_id"
	KeyFlash     = "flash"
	KeyFlashType = "flash_type"
)

// DefaultLifetime is how long a session lives without being renewed.
const DefaultLifetime = 24 * time.Hour

// Options controls session manager construction.
type Options struct {
	// IsDev disables the Secure flag and the __Host- cookie prefix.
	IsDev bool
	// Lifetime overrides DefaultLifetime when non-zero.
	Lifetime time.Duration
	// Store overrides the SQLite store, e.g. with a RedisStore.
	Store scs.Store
}

// New creates a session manager. Sessions are kept in the sessions table
// of db unless opts.Store is set.
func New(db *sql.DB, opts Options) *scs.SessionManager {
	sm := scs.New()

	if opts.Store != nil {
		sm.Store = opts.Store
	} else {
		// Expired rows are filtered on read; no background sweeper.
		sm.Store = sqlite3store.NewWithCleanupInterval(db, 0)
	}

	sm.Lifetime = DefaultLifetime
	if opts.Lifetime > 0 {
		sm.Lifetime = opts.Lifetime
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !opts.IsDev
	if !opts.IsDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// Login binds the session to userID. The token is renewed first so a
// token planted before authentication cannot be reused.
func Login(ctx context.Context, sm *scs.SessionManager, userID int64) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	sm.Put(ctx, KeyUserID, userID)
	return nil
}

// Logout destroys the session and its server-side data.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// UserID returns the authenticated user id, or 0 for an anonymous session.
func UserID(ctx context.Context, sm *scs.SessionManager) int64 {
	return sm.GetInt64(ctx, KeyUserID)
}

// Flash types.
const (
	FlashError   = "error"
	FlashSuccess = "success"
	FlashInfo    = "info"
)

// SetFlash stores a one-shot message shown on the next rendered page.
func SetFlash(ctx context.Context, sm *scs.SessionManager, message, flashType string) {
	sm.Put(ctx, KeyFlash, message)
	sm.Put(ctx, KeyFlashType, flashType)
}

// PopFlash returns and clears the pending flash message.
func PopFlash(ctx context.Context, sm *scs.SessionManager) (message, flashType string) {
	message = sm.PopString(ctx, KeyFlash)
	flashType = sm.PopString(ctx, KeyFlashType)
	if message != "" && flashType == "" {
		flashType = FlashInfo
	}
	return message, flashType
}

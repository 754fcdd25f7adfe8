// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/quill/internal/service"
	"github.com/olegiv/quill/internal/session"
	"github.com/olegiv/quill/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyRequestPath ContextKey = "request_path"
)

// MsgLoginToComment is flashed when an anonymous visitor hits a route
// that needs an account.
const MsgLoginToComment = "You need to login or register to comment."

// UserResolver maps a request's session to a user.
type UserResolver interface {
	CurrentUser(ctx context.Context) (*store.User, error)
}

// LoadUser resolves the current user once per request and stores it in
// the context. Anonymous requests continue without a user.
func LoadUser(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := users.CurrentUser(r.Context())
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to load current user", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	return UserFromContext(r.Context())
}

// UserFromContext is GetUser for code that only has a context.
func UserFromContext(ctx context.Context) *store.User {
	user, ok := ctx.Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
// Safe to use in logging where a zero-value is acceptable.
func GetUserID(ctx context.Context) int64 {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return 0
}

// RequireAuth sends anonymous visitors to the login page with a flash.
// Must run after LoadUser.
func RequireAuth(sm *scs.SessionManager, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r) == nil {
				session.SetFlash(r.Context(), sm, message, session.FlashError)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin answers 403 to everyone the policy does not treat as admin,
// anonymous visitors included. Must run after LoadUser.
func RequireAdmin(policy service.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if err := policy.RequireAdmin(user); err != nil {
				// Log 403 for security monitoring
				slog.WarnContext(r.Context(), "access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", GetUserID(r.Context()),
					"reason", err.Error(),
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in log records.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}

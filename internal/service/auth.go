// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the blog's business rules: who may sign in, who
// may manage posts, and how posts and comments are written.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/quill/internal/auth"
	"github.com/olegiv/quill/internal/form"
	"github.com/olegiv/quill/internal/session"
	"github.com/olegiv/quill/internal/store"
)

// UserStore is the persistence AuthService needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, name string) (store.User, error)
	FindUserByEmail(ctx context.Context, email string) (store.User, error)
	FindUserByID(ctx context.Context, id int64) (store.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// AuthService registers users and moves sessions between the anonymous
// and authenticated states. Session-aware methods expect a context that
// went through SessionManager.LoadAndSave.
type AuthService struct {
	users    UserStore
	sessions *scs.SessionManager
	logger   *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users UserStore, sessions *scs.SessionManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, sessions: sessions, logger: logger}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// spendHash runs one password check against a throwaway digest so unknown
// accounts cost about as much as wrong passwords.
func spendHash(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = auth.HashPassword("quill-dummy-password")
	})
	_, _ = auth.CheckPassword(password, dummyHash)
}

// Register creates an account and signs it in. A taken email returns
// ErrEmailTaken and creates nothing.
func (s *AuthService) Register(ctx context.Context, f form.Register) (store.User, error) {
	if err := f.Validate(); err != nil {
		return store.User{}, err
	}

	// Skip the argon2 cost for an email we already know; the unique
	// index still decides races.
	if _, err := s.users.FindUserByEmail(ctx, f.Email); err == nil {
		return store.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return store.User{}, fmt.Errorf("checking email: %w", err)
	}

	hash, err := auth.HashPassword(f.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, f.Email, hash, f.Name)
	if errors.Is(err, store.ErrConflict) {
		return store.User{}, ErrEmailTaken
	}
	if err != nil {
		return store.User{}, fmt.Errorf("creating user: %w", err)
	}

	if err := session.Login(ctx, s.sessions, user.ID); err != nil {
		return store.User{}, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate checks credentials without touching the session.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		spendHash(password)
		return store.User{}, ErrUnknownAccount
	}
	if err != nil {
		return store.User{}, fmt.Errorf("finding user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return store.User{}, fmt.Errorf("checking password for user %d: %w", user.ID, err)
	}
	if !ok {
		return store.User{}, ErrBadCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, password)
	}
	return user, nil
}

// rehash upgrades a stored digest. Failure is logged and otherwise ignored.
func (s *AuthService) rehash(ctx context.Context, userID int64, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = s.users.UpdateUserPassword(ctx, userID, hash)
	}
	if err != nil {
		s.logger.Warn("failed to upgrade password hash", "user_id", userID, "error", err)
		return
	}
	s.logger.Info("password hash upgraded", "user_id", userID)
}

// Login authenticates and binds the session to the user. On any error the
// session is left untouched.
func (s *AuthService) Login(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return store.User{}, err
	}
	if err := session.Login(ctx, s.sessions, user.ID); err != nil {
		return store.User{}, err
	}
	return user, nil
}

// Logout returns the session to the anonymous state.
func (s *AuthService) Logout(ctx context.Context) error {
	return session.Logout(ctx, s.sessions)
}

// CurrentUser resolves the session's user. It returns nil for anonymous
// sessions and for sessions whose user no longer exists; the latter are
// cleared.
func (s *AuthService) CurrentUser(ctx context.Context) (*store.User, error) {
	id := session.UserID(ctx, s.sessions)
	if id == 0 {
		return nil, nil
	}

	user, err := s.users.FindUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		s.sessions.Remove(ctx, session.KeyUserID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading current user: %w", err)
	}
	return &user, nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/quill/internal/auth"
)

// AdminSeed describes the account created on an empty database.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

// SeedAdmin creates the first account when no users exist yet, so that it
// receives id 1 and becomes the administrator. It is a no-op otherwise.
func SeedAdmin(ctx context.Context, repo *Repository, seed AdminSeed) error {
	count, err := repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Info("users already exist, skipping admin seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := repo.CreateUser(ctx, seed.Email, passwordHash, seed.Name)
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}

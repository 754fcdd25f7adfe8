// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"

	"github.com/olegiv/quill/internal/store"
)

// Authentication errors. Both concrete errors wrap ErrAuthentication.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrUnknownAccount = fmt.Errorf("%w: email not registered", ErrAuthentication)
	ErrBadCredentials = fmt.Errorf("%w: incorrect password", ErrAuthentication)
)

// Authorization errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

// Conflicts on unique fields; both wrap store.ErrConflict.
var (
	ErrEmailTaken = fmt.Errorf("email already registered: %w", store.ErrConflict)
	ErrTitleTaken = fmt.Errorf("post title already exists: %w", store.ErrConflict)
)

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "github.com/olegiv/quill/internal/store"

// DefaultAdminID is the id of the first user ever created.
const DefaultAdminID int64 = 1

// Policy answers capability questions about the current user.
// A nil user is an anonymous visitor.
type Policy struct {
	AdminID int64
}

// NewPolicy returns a Policy for adminID, falling back to DefaultAdminID.
func NewPolicy(adminID int64) Policy {
	if adminID <= 0 {
		adminID = DefaultAdminID
	}
	return Policy{AdminID: adminID}
}

// IsAdmin reports whether u may manage posts.
func (p Policy) IsAdmin(u *store.User) bool {
	return u != nil && u.ID == p.AdminID
}

// RequireAuthenticated fails with ErrUnauthenticated for anonymous visitors.
func (p Policy) RequireAuthenticated(u *store.User) error {
	if u == nil {
		return ErrUnauthenticated
	}
	return nil
}

// RequireAdmin fails with ErrUnauthenticated for anonymous visitors and
// ErrForbidden for everyone but the admin.
func (p Policy) RequireAdmin(u *store.User) error {
	if u == nil {
		return ErrUnauthenticated
	}
	if !p.IsAdmin(u) {
		return ErrForbidden
	}
	return nil
}

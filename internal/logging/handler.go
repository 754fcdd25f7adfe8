// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the application's slog setup and a handler
// that tags records with request details taken from the context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/quill/internal/middleware"
)

// ContextHandler is a slog.Handler that wraps another handler and adds
// request_id, path and user_id attributes when the record's context
// carries them. Request attributes stay at the top level even after
// WithGroup.
type ContextHandler struct {
	// base is the wrapped handler before any With* calls.
	base slog.Handler
	// inner is base with ops applied.
	inner slog.Handler
	ops   []handlerOp
}

// handlerOp is one WithAttrs or WithGroup call, replayed in order.
type handlerOp struct {
	group string
	attrs []slog.Attr
}

// NewContextHandler wraps inner.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{base: inner, inner: inner}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := requestAttrs(ctx, r)
	if len(attrs) == 0 {
		return h.inner.Handle(ctx, r)
	}
	if len(h.ops) == 0 {
		r.AddAttrs(attrs...)
		return h.inner.Handle(ctx, r)
	}

	// Attach request attrs at the top level, then replay the groups.
	handler := h.base.WithAttrs(attrs)
	for _, op := range h.ops {
		if op.group != "" {
			handler = handler.WithGroup(op.group)
		} else {
			handler = handler.WithAttrs(op.attrs)
		}
	}
	return handler.Handle(ctx, r)
}

func requestAttrs(ctx context.Context, r slog.Record) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	if id := chimw.GetReqID(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if path := middleware.GetRequestPath(ctx); path != "" {
		attrs = append(attrs, slog.String("path", path))
	}
	if !hasAttr(r, "user_id") {
		if uid := middleware.GetUserID(ctx); uid != 0 {
			attrs = append(attrs, slog.Int64("user_id", uid))
		}
	}
	return attrs
}

func hasAttr(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}

func (h *ContextHandler) with(op handlerOp, inner slog.Handler) *ContextHandler {
	ops := make([]handlerOp, len(h.ops), len(h.ops)+1)
	copy(ops, h.ops)
	return &ContextHandler{base: h.base, inner: inner, ops: append(ops, op)}
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(handlerOp{attrs: attrs}, h.inner.WithAttrs(attrs))
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerOp{group: name}, h.inner.WithGroup(name))
}

// ParseLevel maps a config value to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the application logger: text output, level from config,
// request context enrichment.
func New(w io.Writer, level string) *slog.Logger {
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(NewContextHandler(inner))
}

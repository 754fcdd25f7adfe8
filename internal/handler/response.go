// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/quill/internal/form"
	"github.com/olegiv/quill/internal/render"
	"github.com/olegiv/quill/internal/service"
	"github.com/olegiv/quill/internal/session"
	"github.com/olegiv/quill/internal/store"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) so a POST is followed by a GET.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, session.FlashError)
}

// redirect answers a successful form post.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, r *http.Request, message string, statusCode int, logMsg string, args ...any) {
	slog.ErrorContext(r.Context(), logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, r *http.Request, logMsg string, args ...any) {
	logAndHTTPError(w, r, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// renderPage writes a page, turning a template failure into a 500.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, r, "failed to render template", "template", name, "error", err)
	}
}

// renderServiceError maps a service error to a response for routes that
// have no form to re-render.
func renderServiceError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, logMsg string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		renderer.RenderError(w, r, http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrUnauthenticated):
		renderer.RenderError(w, r, http.StatusForbidden)
	default:
		logAndInternalError(w, r, logMsg, "error", err)
	}
}

// formErrors extracts validation errors, if err carries them.
func formErrors(err error) (form.Errors, bool) {
	var errs form.Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// parseID reads the {id} URL parameter. Only positive integers are ids.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseForm parses a posted form, answering 400 on failure.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

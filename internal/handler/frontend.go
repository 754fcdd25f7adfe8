// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/quill/internal/render"
)

// FrontendHandler serves the static markdown pages.
type FrontendHandler struct {
	renderer *render.Renderer
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer) *FrontendHandler {
	return &FrontendHandler{renderer: renderer}
}

// About handles GET /about.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "about", "About")
}

// Contact handles GET /contact.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "contact", "Contact")
}

func (h *FrontendHandler) page(w http.ResponseWriter, r *http.Request, name, title string) {
	html, ok := h.renderer.Page(name)
	if !ok {
		h.renderer.RenderError(w, r, http.StatusNotFound)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, tmplPage, render.TemplateData{Title: title, Data: html})
}

// NotFound renders the 404 page for unmatched routes.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderError(w, r, http.StatusNotFound)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/quill/internal/form"
	"github.com/olegiv/quill/internal/render"
	"github.com/olegiv/quill/internal/service"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	auth     *service.AuthService
	renderer *render.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, renderer *render.Renderer) *AuthHandler {
	return &AuthHandler{auth: auth, renderer: renderer}
}

// RegisterForm renders the sign-up page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, tmplRegister, render.TemplateData{
		Title: "Register",
		Form:  form.Register{},
	})
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := form.ParseRegister(r.PostForm)

	_, err := h.auth.Register(r.Context(), f)
	if errs, ok := formErrors(err); ok {
		f.Password = ""
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, tmplRegister, render.TemplateData{
			Title:  "Register",
			Form:   f,
			Errors: errs,
		})
		return
	}
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		flashError(w, r, h.renderer, redirectLogin, msgAlreadyRegistered)
	case err != nil:
		logAndInternalError(w, r, "failed to register user", "error", err)
	default:
		redirect(w, r, redirectRoot)
	}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, tmplLogin, render.TemplateData{
		Title: "Log In",
		Form:  form.Login{},
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := form.ParseLogin(r.PostForm)

	if err := f.Validate(); err != nil {
		errs, _ := formErrors(err)
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, tmplLogin, render.TemplateData{
			Title:  "Log In",
			Form:   form.Login{Email: f.Email},
			Errors: errs,
		})
		return
	}

	user, err := h.auth.Login(r.Context(), f.Email, f.Password)
	switch {
	case errors.Is(err, service.ErrUnknownAccount):
		flashError(w, r, h.renderer, redirectLogin, msgUnknownEmail)
	case errors.Is(err, service.ErrBadCredentials):
		slog.InfoContext(r.Context(), "failed login attempt", "remote_addr", r.RemoteAddr)
		flashError(w, r, h.renderer, redirectLogin, msgBadPassword)
	case err != nil:
		logAndInternalError(w, r, "failed to log in", "error", err)
	default:
		slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID)
		redirect(w, r, redirectRoot)
	}
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "session destroy error", "error", err)
	}
	redirect(w, r, redirectRoot)
}

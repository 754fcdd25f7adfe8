// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the blog's HTTP handlers and route table.
package handler

import (
	"database/sql"
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/quill/internal/middleware"
	"github.com/olegiv/quill/internal/render"
	"github.com/olegiv/quill/internal/service"
)

// RouterConfig holds everything the route table is built from.
type RouterConfig struct {
	DB       *sql.DB
	Sessions *scs.SessionManager
	Renderer *render.Renderer
	Auth     *service.AuthService
	Posts    *service.PostService
	Policy   service.Policy
	CSRF     middleware.CSRFConfig
	IsDev    bool
	// Static holds the assets served under /static/.
	Static fs.FS
}

// NewRouter builds the middleware stack and registers every route.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestPath)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDev)))

	healthHandler := NewHealthHandler(cfg.DB)
	r.Get(RouteHealth, healthHandler.Health)

	if cfg.Static != nil {
		r.Handle(RouteStatic, http.StripPrefix("/static/", http.FileServerFS(cfg.Static)))
	}

	authHandler := NewAuthHandler(cfg.Auth, cfg.Renderer)
	postsHandler := NewPostsHandler(cfg.Posts, cfg.Renderer)
	frontendHandler := NewFrontendHandler(cfg.Renderer)

	// Every rendered page reads the session for the current user and flash.
	r.Group(func(r chi.Router) {
		r.Use(cfg.Sessions.LoadAndSave)
		r.Use(middleware.CSRF(cfg.CSRF))
		r.Use(middleware.LoadUser(cfg.Auth))

		r.Get(RouteRoot, postsHandler.List)
		r.Get(RouteAbout, frontendHandler.About)
		r.Get(RouteContact, frontendHandler.Contact)

		r.Get(RouteRegister, authHandler.RegisterForm)
		r.Post(RouteRegister, authHandler.Register)
		r.Get(RouteLogin, authHandler.LoginForm)
		r.Post(RouteLogin, authHandler.Login)
		r.Get(RouteLogout, authHandler.Logout)

		r.Get(RoutePost, postsHandler.Show)
		r.With(middleware.RequireAuth(cfg.Sessions, middleware.MsgLoginToComment)).
			Post(RoutePost, postsHandler.Comment)

		// Post management is limited to the configured admin account
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.Policy))

			r.Get(RouteNewPost, postsHandler.NewForm)
			r.Post(RouteNewPost, postsHandler.Create)
			r.Get(RouteEditPost, postsHandler.EditForm)
			r.Post(RouteEditPost, postsHandler.Update)
			r.Get(RouteDeletePost, postsHandler.Delete)
		})

		r.NotFound(frontendHandler.NotFound)
	})

	return r
}

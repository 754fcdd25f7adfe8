// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/olegiv/quill/internal/form"
	"github.com/olegiv/quill/internal/middleware"
	"github.com/olegiv/quill/internal/render"
	"github.com/olegiv/quill/internal/service"
	"github.com/olegiv/quill/internal/store"
)

// PostsHandler handles reading, commenting on and managing posts.
type PostsHandler struct {
	posts    *service.PostService
	renderer *render.Renderer
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(posts *service.PostService, renderer *render.Renderer) *PostsHandler {
	return &PostsHandler{posts: posts, renderer: renderer}
}

func postURL(id int64) string {
	return fmt.Sprintf("/post/%d", id)
}

func editURL(id int64) string {
	return fmt.Sprintf("/edit-post/%d", id)
}

// List handles GET /.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to list posts", "error", err)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, tmplIndex, render.TemplateData{Data: posts})
}

// Show handles GET /post/{id}.
func (h *PostsHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderer.RenderError(w, r, http.StatusNotFound)
		return
	}

	detail, err := h.posts.Get(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, h.renderer, "failed to load post", err)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, tmplPost, render.TemplateData{
		Title: detail.Post.Title,
		Data:  detail,
		Form:  form.Comment{},
	})
}

// Comment handles POST /post/{id}. Anonymous visitors are stopped by
// middleware.RequireAuth before this runs.
func (h *PostsHandler) Comment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderer.RenderError(w, r, http.StatusNotFound)
		return
	}
	if !parseForm(w, r) {
		return
	}
	f := form.ParseComment(r.PostForm)

	_, err := h.posts.AddComment(r.Context(), middleware.GetUser(r), id, f)
	if errs, ok := formErrors(err); ok {
		detail, getErr := h.posts.Get(r.Context(), id)
		if getErr != nil {
			renderServiceError(w, r, h.renderer, "failed to load post", getErr)
			return
		}
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, tmplPost, render.TemplateData{
			Title:  detail.Post.Title,
			Data:   detail,
			Form:   f,
			Errors: errs,
		})
		return
	}
	if err != nil {
		renderServiceError(w, r, h.renderer, "failed to add comment", err)
		return
	}
	redirect(w, r, postURL(id))
}

// NewForm handles GET /new-post.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderPostForm(w, r, http.StatusOK, "New Post", RouteNewPost, form.Post{}, nil)
}

// Create handles POST /new-post.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := form.ParsePost(r.PostForm)

	_, err := h.posts.Create(r.Context(), middleware.GetUser(r), f)
	if h.handleFormError(w, r, "New Post", RouteNewPost, f, err) {
		return
	}
	if err != nil {
		renderServiceError(w, r, h.renderer, "failed to create post", err)
		return
	}
	redirect(w, r, redirectRoot)
}

// EditForm handles GET /edit-post/{id}, prefilled with the current post.
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderer.RenderError(w, r, http.StatusNotFound)
		return
	}

	detail, err := h.posts.Get(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, h.renderer, "failed to load post", err)
		return
	}
	h.renderPostForm(w, r, http.StatusOK, "Edit Post", editURL(id), postForm(detail.Post), nil)
}

// Update handles POST /edit-post/{id}.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderer.RenderError(w, r, http.StatusNotFound)
		return
	}
	if !parseForm(w, r) {
		return
	}
	f := form.ParsePost(r.PostForm)

	err := h.posts.Update(r.Context(), middleware.GetUser(r), id, f)
	if h.handleFormError(w, r, "Edit Post", editURL(id), f, err) {
		return
	}
	if err != nil {
		renderServiceError(w, r, h.renderer, "failed to update post", err)
		return
	}
	redirect(w, r, postURL(id))
}

// Delete handles GET /delete/{id}.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderer.RenderError(w, r, http.StatusNotFound)
		return
	}

	if err := h.posts.Delete(r.Context(), middleware.GetUser(r), id); err != nil {
		renderServiceError(w, r, h.renderer, "failed to delete post", err)
		return
	}
	redirect(w, r, redirectRoot)
}

// handleFormError re-renders the post form for validation errors and
// duplicate titles. It reports whether a response was written.
func (h *PostsHandler) handleFormError(w http.ResponseWriter, r *http.Request, title, action string, f form.Post, err error) bool {
	if errs, ok := formErrors(err); ok {
		h.renderPostForm(w, r, http.StatusUnprocessableEntity, title, action, f, errs)
		return true
	}
	if errors.Is(err, service.ErrTitleTaken) {
		h.renderPostForm(w, r, http.StatusUnprocessableEntity, title, action, f, form.Errors{"title": msgDuplicateTitle})
		return true
	}
	return false
}

func (h *PostsHandler) renderPostForm(w http.ResponseWriter, r *http.Request, status int, title, action string, f form.Post, errs form.Errors) {
	renderPage(w, r, h.renderer, status, tmplMakePost, render.TemplateData{
		Title:  title,
		Data:   action,
		Form:   f,
		Errors: errs,
	})
}

func postForm(p store.PostView) form.Post {
	return form.Post{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		ImgURL:   p.ImgURL,
		Body:     p.Body,
	}
}

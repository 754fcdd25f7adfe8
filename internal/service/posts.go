// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/quill/internal/form"
	"github.com/olegiv/quill/internal/store"
)

// DateLayout is how a post's creation date is stored and shown.
const DateLayout = "January 02, 2006"

// PostStore is the persistence PostService needs.
type PostStore interface {
	CreatePost(ctx context.Context, arg store.CreatePostParams) (store.PostView, error)
	ListPosts(ctx context.Context) ([]store.PostView, error)
	GetPostByID(ctx context.Context, id int64) (store.PostView, error)
	UpdatePost(ctx context.Context, id int64, f store.UpdatePostFields) error
	DeletePost(ctx context.Context, id int64) error
	CreateComment(ctx context.Context, postID, authorID int64, text string) (store.Comment, error)
	ListCommentsForPost(ctx context.Context, postID int64) ([]store.CommentView, error)
}

// PostDetail is a post with its comments.
type PostDetail struct {
	Post     store.PostView
	Comments []store.CommentView
}

// PostService applies the posting rules: only the admin writes posts,
// any signed-in user comments.
type PostService struct {
	posts  PostStore
	policy Policy
	logger *slog.Logger
	now    func() time.Time
}

// NewPostService creates a PostService.
func NewPostService(posts PostStore, policy Policy, logger *slog.Logger) *PostService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostService{posts: posts, policy: policy, logger: logger, now: time.Now}
}

// SetClock replaces the clock used to date new posts.
func (s *PostService) SetClock(now func() time.Time) {
	s.now = now
}

// Today returns the current date in DateLayout.
func (s *PostService) Today() string {
	return s.now().Format(DateLayout)
}

// List returns all posts.
func (s *PostService) List(ctx context.Context) ([]store.PostView, error) {
	return s.posts.ListPosts(ctx)
}

// Get returns a post with its comments, or store.ErrNotFound.
func (s *PostService) Get(ctx context.Context, id int64) (PostDetail, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return PostDetail{}, err
	}
	comments, err := s.posts.ListCommentsForPost(ctx, id)
	if err != nil {
		return PostDetail{}, err
	}
	return PostDetail{Post: post, Comments: comments}, nil
}

// Create publishes a post authored by actor and dated today.
func (s *PostService) Create(ctx context.Context, actor *store.User, f form.Post) (store.PostView, error) {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return store.PostView{}, err
	}
	if err := f.Validate(); err != nil {
		return store.PostView{}, err
	}

	post, err := s.posts.CreatePost(ctx, store.CreatePostParams{
		AuthorID: actor.ID,
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Date:     s.Today(),
		Body:     f.Body,
		ImgUrl:   f.ImgURL,
	})
	if errors.Is(err, store.ErrConflict) {
		return store.PostView{}, ErrTitleTaken
	}
	if err != nil {
		return store.PostView{}, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created", "post_id", post.ID, "author_id", actor.ID)
	return post, nil
}

// Update rewrites a post's editable fields. Date and author never change.
func (s *PostService) Update(ctx context.Context, actor *store.User, id int64, f form.Post) error {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}

	err := s.posts.UpdatePost(ctx, id, store.UpdatePostFields{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Body:     f.Body,
		ImgURL:   f.ImgURL,
	})
	if errors.Is(err, store.ErrConflict) {
		return ErrTitleTaken
	}
	if err != nil {
		return fmt.Errorf("updating post %d: %w", id, err)
	}

	s.logger.Info("post updated", "post_id", id)
	return nil
}

// Delete removes a post and its comments.
func (s *PostService) Delete(ctx context.Context, actor *store.User, id int64) error {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}

	s.logger.Info("post deleted", "post_id", id)
	return nil
}

// AddComment stores a comment by actor on a post.
func (s *PostService) AddComment(ctx context.Context, actor *store.User, postID int64, f form.Comment) (store.Comment, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return store.Comment{}, err
	}
	if err := f.Validate(); err != nil {
		return store.Comment{}, err
	}

	comment, err := s.posts.CreateComment(ctx, postID, actor.ID, f.Text)
	if err != nil {
		return store.Comment{}, fmt.Errorf("adding comment to post %d: %w", postID, err)
	}
	return comment, nil
}

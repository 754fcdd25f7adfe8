// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository is the blog's persistence layer. It is safe for concurrent
// use: reads go straight to the pool and every write runs in its own
// transaction, so a failed write leaves nothing behind.
type Repository struct {
	db      *sql.DB
	queries *Queries
}

// NewRepository creates a Repository over a connection pool.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, queries: New(db)}
}

// execTx runs fn inside a transaction and commits when fn returns nil.
func (r *Repository) execTx(ctx context.Context, op string, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: op + ": begin", Err: err}
	}

	if err := fn(r.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return classify(op, err)
	}

	if err := tx.Commit(); err != nil {
		return classify(op+": commit", err)
	}
	return nil
}

// PostView is a post joined with its author's display name.
type PostView struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	Title      string
	Subtitle   string
	Date       string
	Body       string
	ImgURL     string
}

// CommentView is a comment joined with its author.
type CommentView struct {
	ID          int64
	PostID      int64
	AuthorID    int64
	AuthorName  string
	AuthorEmail string
	Text        string
}

// CreateUser inserts a user. A duplicate email returns ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash, name string) (User, error) {
	var user User
	err := r.execTx(ctx, "create user", func(q *Queries) error {
		var err error
		user, err = q.CreateUser(ctx, CreateUserParams{
			Email:        email,
			PasswordHash: passwordHash,
			Name:         name,
		})
		return err
	})
	return user, err
}

// FindUserByEmail looks a user up by exact email.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (User, error) {
	user, err := r.queries.GetUserByEmail(ctx, email)
	return user, classify("find user by email", err)
}

// FindUserByID looks a user up by id.
func (r *Repository) FindUserByID(ctx context.Context, id int64) (User, error) {
	user, err := r.queries.GetUserByID(ctx, id)
	return user, classify("find user by id", err)
}

// UpdateUserPassword replaces a user's password digest.
func (r *Repository) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	return r.execTx(ctx, "update user password", func(q *Queries) error {
		return q.UpdateUserPassword(ctx, UpdateUserPasswordParams{PasswordHash: passwordHash, ID: id})
	})
}

// CountUsers returns the number of registered users.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	n, err := r.queries.CountUsers(ctx)
	return n, classify("count users", err)
}

// CreatePost inserts a post and returns it with its author's name.
// A duplicate title returns ErrConflict.
func (r *Repository) CreatePost(ctx context.Context, arg CreatePostParams) (PostView, error) {
	var view PostView
	err := r.execTx(ctx, "create post", func(q *Queries) error {
		author, err := q.GetUserByID(ctx, arg.AuthorID)
		if err != nil {
			return fmt.Errorf("loading author: %w", err)
		}
		post, err := q.CreatePost(ctx, arg)
		if err != nil {
			return err
		}
		view = PostView{
			ID:         post.ID,
			AuthorID:   post.AuthorID,
			AuthorName: author.Name,
			Title:      post.Title,
			Subtitle:   post.Subtitle,
			Date:       post.Date,
			Body:       post.Body,
			ImgURL:     post.ImgUrl,
		}
		return nil
	})
	return view, err
}

// ListPosts returns every post in creation order.
func (r *Repository) ListPosts(ctx context.Context) ([]PostView, error) {
	rows, err := r.queries.ListPosts(ctx)
	if err != nil {
		return nil, classify("list posts", err)
	}
	posts := make([]PostView, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, PostView{
			ID:         row.ID,
			AuthorID:   row.AuthorID,
			AuthorName: row.AuthorName,
			Title:      row.Title,
			Subtitle:   row.Subtitle,
			Date:       row.Date,
			Body:       row.Body,
			ImgURL:     row.ImgUrl,
		})
	}
	return posts, nil
}

// GetPostByID returns a post or ErrNotFound.
func (r *Repository) GetPostByID(ctx context.Context, id int64) (PostView, error) {
	row, err := r.queries.GetPostByID(ctx, id)
	if err != nil {
		return PostView{}, classify("get post", err)
	}
	return PostView{
		ID:         row.ID,
		AuthorID:   row.AuthorID,
		AuthorName: row.AuthorName,
		Title:      row.Title,
		Subtitle:   row.Subtitle,
		Date:       row.Date,
		Body:       row.Body,
		ImgURL:     row.ImgUrl,
	}, nil
}

// UpdatePostFields carries the editable fields of a post. Date and author
// are fixed at creation.
type UpdatePostFields struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

// UpdatePost overwrites the editable fields of a post.
func (r *Repository) UpdatePost(ctx context.Context, id int64, f UpdatePostFields) error {
	return r.execTx(ctx, "update post", func(q *Queries) error {
		n, err := q.UpdatePost(ctx, UpdatePostParams{
			Title:    f.Title,
			Subtitle: f.Subtitle,
			Body:     f.Body,
			ImgUrl:   f.ImgURL,
			ID:       id,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeletePost removes a post together with all of its comments.
func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	return r.execTx(ctx, "delete post", func(q *Queries) error {
		if _, err := q.DeleteCommentsForPost(ctx, id); err != nil {
			return fmt.Errorf("deleting comments: %w", err)
		}
		n, err := q.DeletePost(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateComment attaches a comment to a post. It returns ErrNotFound when
// the post does not exist.
func (r *Repository) CreateComment(ctx context.Context, postID, authorID int64, text string) (Comment, error) {
	var comment Comment
	err := r.execTx(ctx, "create comment", func(q *Queries) error {
		exists, err := q.PostExists(ctx, postID)
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		comment, err = q.CreateComment(ctx, CreateCommentParams{
			Text:     text,
			AuthorID: authorID,
			PostID:   postID,
		})
		return err
	})
	return comment, err
}

// ListCommentsForPost returns a post's comments oldest first.
func (r *Repository) ListCommentsForPost(ctx context.Context, postID int64) ([]CommentView, error) {
	rows, err := r.queries.ListCommentsForPost(ctx, postID)
	if err != nil {
		return nil, classify("list comments", err)
	}
	comments := make([]CommentView, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, CommentView{
			ID:          row.ID,
			PostID:      row.PostID,
			AuthorID:    row.AuthorID,
			AuthorName:  row.AuthorName,
			AuthorEmail: row.AuthorEmail,
			Text:        row.Text,
		})
	}
	return comments, nil
}

// CountCommentsForPost returns the number of comments attached to a post.
func (r *Repository) CountCommentsForPost(ctx context.Context, postID int64) (int64, error) {
	n, err := r.queries.CountCommentsForPost(ctx, postID)
	return n, classify("count comments", err)
}

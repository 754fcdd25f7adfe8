// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import "net/url"

// Register is the sign-up form.
type Register struct {
	Email    string `form:"email" validate:"required,email,max=100"`
	Password string `form:"password" validate:"required"`
	Name     string `form:"name" validate:"required,max=100"`
}

// ParseRegister reads a Register form. The password is kept verbatim.
func ParseRegister(values url.Values) Register {
	return Register{
		Email:    field(values, "email"),
		Password: values.Get("password"),
		Name:     field(values, "name"),
	}
}

// Validate returns Errors when the form is incomplete.
func (f Register) Validate() error { return check(f) }

// Login is the sign-in form.
type Login struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// ParseLogin reads a Login form.
func ParseLogin(values url.Values) Login {
	return Login{
		Email:    field(values, "email"),
		Password: values.Get("password"),
	}
}

// Validate requires both credentials.
func (f Login) Validate() error { return check(f) }

// Post is the create and edit form for blog posts.
type Post struct {
	Title    string `form:"title" validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"required,max=250"`
	ImgURL   string `form:"img_url" validate:"required,web_url,max=250"`
	Body     string `form:"body" validate:"required"`
}

// ParsePost reads a Post form.
func ParsePost(values url.Values) Post {
	return Post{
		Title:    field(values, "title"),
		Subtitle: field(values, "subtitle"),
		ImgURL:   field(values, "img_url"),
		Body:     field(values, "body"),
	}
}

// Validate returns Errors for missing fields or an image URL that is not
// http or https.
func (f Post) Validate() error { return check(f) }

// Comment is the comment box under a post.
type Comment struct {
	Text string `form:"comment_text" validate:"required"`
}

// ParseComment reads a Comment form.
func ParseComment(values url.Values) Comment {
	return Comment{Text: field(values, "comment_text")}
}

// Validate rejects an empty comment.
func (f Comment) Validate() error { return check(f) }

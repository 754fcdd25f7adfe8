// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form decodes and validates the blog's HTML forms.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to a user-facing message.
type Errors map[string]string

// Error implements error.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first one.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Get returns the message for field or an empty string.
func (e Errors) Get(field string) string {
	return e[field]
}

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the HTML field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("web_url", isWebURL); err != nil {
		panic(fmt.Sprintf("form: registering web_url: %v", err))
	}
	return v
}

// isWebURL accepts absolute http and https URLs with a host.
func isWebURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// check runs struct validation and converts the result into Errors.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating form: %w", err)
	}

	errs := Errors{}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "web_url":
		return "Invalid URL."
	case "max":
		return "Must be at most " + fe.Param() + " characters."
	default:
		return "Invalid value."
	}
}

// field returns the trimmed value of key.
func field(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

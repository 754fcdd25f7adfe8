// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render turns page templates and request state into HTML.
package render

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/olegiv/quill/internal/form"
	"github.com/olegiv/quill/internal/middleware"
	"github.com/olegiv/quill/internal/service"
	"github.com/olegiv/quill/internal/session"
	"github.com/olegiv/quill/internal/store"
)

// blankLinesRegex matches runs of whitespace-only lines left behind by
// template actions.
var blankLinesRegex = regexp.MustCompile(`(\r?\n[ \t]*)+\r?\n`)

// preformattedRegex matches elements whose text content is whitespace
// sensitive.
var preformattedRegex = regexp.MustCompile(`(?is)<textarea\b.*?</textarea>|<pre\b.*?</pre>`)

// collapseBlankLines removes blank lines outside textarea and pre elements.
func collapseBlankLines(b []byte) []byte {
	regions := preformattedRegex.FindAllIndex(b, -1)
	if len(regions) == 0 {
		return blankLinesRegex.ReplaceAll(b, []byte("\n"))
	}

	out := make([]byte, 0, len(b))
	last := 0
	for _, loc := range regions {
		out = append(out, blankLinesRegex.ReplaceAll(b[last:loc[0]], []byte("\n"))...)
		out = append(out, b[loc[0]:loc[1]]...)
		last = loc[1]
	}
	return append(out, blankLinesRegex.ReplaceAll(b[last:], []byte("\n"))...)
}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	pages          map[string]template.HTML
	sessionManager *scs.SessionManager
	policy         service.Policy
	sanitizer      *bluemonday.Policy
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	// TemplatesFS holds layouts/, partials/ and pages/.
	TemplatesFS fs.FS
	// ContentFS holds markdown documents served as static pages.
	ContentFS      fs.FS
	SessionManager *scs.SessionManager
	Policy         service.Policy
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		pages:          make(map[string]template.HTML),
		sessionManager: cfg.SessionManager,
		policy:         cfg.Policy,
		sanitizer:      bluemonday.UGCPolicy(),
		isDev:          cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	if cfg.ContentFS != nil {
		if err := r.loadPages(cfg.ContentFS); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// parseTemplates parses every page with the base layout and all partials.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	pages, err := getTemplateFiles(templatesFS, "pages")
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	baseLayout := "layouts/base.html"

	for _, tmplPath := range pages {
		name := strings.TrimSuffix(path.Base(tmplPath), ".html")

		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return nil
}

// getTemplateFiles returns all .html files in a directory.
func getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// Directory might not exist, that's ok
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// loadPages converts every markdown file in contentFS to HTML once.
func (r *Renderer) loadPages(contentFS fs.FS) error {
	entries, err := fs.ReadDir(contentFS, ".")
	if err != nil {
		return fmt.Errorf("reading content: %w", err)
	}

	md := goldmark.New()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		src, err := fs.ReadFile(contentFS, entry.Name())
		if err != nil {
			return fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return fmt.Errorf("converting %s: %w", entry.Name(), err)
		}
		// goldmark drops raw HTML by default; the result is trusted.
		r.pages[strings.TrimSuffix(entry.Name(), ".md")] = template.HTML(buf.String())
	}
	return nil
}

// Page returns a converted markdown page.
func (r *Renderer) Page(name string) (template.HTML, bool) {
	html, ok := r.pages[name]
	return html, ok
}

// Sanitize strips everything but user-generated-content markup from s.
func (r *Renderer) Sanitize(s string) template.HTML {
	return template.HTML(r.sanitizer.Sanitize(s))
}

// templateFuncs returns custom template functions.
func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"sanitize": r.Sanitize,
		"gravatar": gravatarURL,
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"fieldError": func(errs form.Errors, field string) string {
			return errs.Get(field)
		},
	}
}

// gravatarURL returns the avatar image for an email address.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=100&d=retro&r=g"
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Form        any
	Errors      form.Errors
	User        *store.User
	IsAdmin     bool
	Flash       string
	FlashType   string
	CurrentYear int
}

// Render renders a template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code. The user,
// admin flag and pending flash message are filled in from the request.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.User = middleware.GetUser(req)
	data.IsAdmin = r.policy.IsAdmin(data.User)

	if r.sessionManager != nil {
		data.Flash, data.FlashType = session.PopFlash(req.Context(), r.sessionManager)
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(collapseBlankLines(buf.Bytes()))
	return nil
}

// RenderError renders the error page, falling back to plain text.
func (r *Renderer) RenderError(w http.ResponseWriter, req *http.Request, status int) {
	data := TemplateData{
		Title: http.StatusText(status),
		Data:  status,
	}
	if err := r.RenderStatus(w, req, status, "error", data); err != nil {
		http.Error(w, http.StatusText(status), status)
	}
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		session.SetFlash(req.Context(), r.sessionManager, message, flashType)
	}
}

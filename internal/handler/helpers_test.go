package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/quill/internal/middleware"
	"github.com/olegiv/quill/internal/render"
	"github.com/olegiv/quill/internal/service"
	"github.com/olegiv/quill/internal/session"
	"github.com/olegiv/quill/internal/store"
	"github.com/olegiv/quill/internal/testutil"
	"github.com/olegiv/quill/web"
)

var testCSRFKey = []byte("0123456789abcdef0123456789abcdef")

// testApp is a running blog over a fresh database.
type testApp struct {
	server *httptest.Server
	repo   *store.Repository
	posts  *service.PostService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	repo, db := testutil.TestRepo(t)
	sm := session.New(db, session.Options{IsDev: true})
	policy := service.NewPolicy(service.DefaultAdminID)
	logger := testutil.TestLogger()

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.Templates(),
		ContentFS:      web.Content(),
		SessionManager: sm,
		Policy:         policy,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	posts := service.NewPostService(repo, policy, logger)
	posts.SetClock(func() time.Time {
		return time.Date(2026, time.October, 4, 12, 0, 0, 0, time.UTC)
	})

	srv := httptest.NewServer(NewRouter(RouterConfig{
		DB:       db,
		Sessions: sm,
		Renderer: renderer,
		Auth:     service.NewAuthService(repo, sm, logger),
		Posts:    posts,
		Policy:   policy,
		CSRF:     middleware.CSRFConfig{AuthKey: testCSRFKey},
		IsDev:    true,
		Static:   web.Static(),
	}))
	t.Cleanup(srv.Close)

	return &testApp{server: srv, repo: repo, posts: posts}
}

// testClient is a browser-like client that keeps cookies and does not
// follow redirects.
type testClient struct {
	t      *testing.T
	app    *testApp
	client *http.Client
}

func (a *testApp) newClient(t *testing.T) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &testClient{
		t:   t,
		app: a,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// response is a fully read HTTP response.
type response struct {
	status   int
	location string
	header   http.Header
	body     string
}

func (c *testClient) do(req *http.Request) response {
	c.t.Helper()
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("reading body: %v", err)
	}
	return response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		header:   resp.Header,
		body:     string(body),
	}
}

func (c *testClient) get(path string) response {
	c.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.app.server.URL+path, nil)
	if err != nil {
		c.t.Fatalf("NewRequest: %v", err)
	}
	return c.do(req)
}

func (c *testClient) post(path string, values url.Values) response {
	c.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.app.server.URL+path,
		strings.NewReader(values.Encode()))
	if err != nil {
		c.t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *testClient) register(email, name, password string) response {
	c.t.Helper()
	return c.post(RouteRegister, url.Values{
		"email":    {email},
		"name":     {name},
		"password": {password},
	})
}

func (c *testClient) login(email, password string) response {
	c.t.Helper()
	return c.post(RouteLogin, url.Values{
		"email":    {email},
		"password": {password},
	})
}

func postValues(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"img_url":  {"https://example.com/image.jpg"},
		"body":     {"<p>Hello <strong>world</strong></p>"},
	}
}

// newAdmin registers the first account, which the default policy treats
// as the admin.
func newAdmin(t *testing.T, app *testApp) *testClient {
	t.Helper()
	c := app.newClient(t)
	resp := c.register("admin@example.com", "Admin", "admin-password")
	assertRedirect(t, resp, redirectRoot)
	return c
}

func newReader(t *testing.T, app *testApp, email string) *testClient {
	t.Helper()
	c := app.newClient(t)
	resp := c.register(email, "Reader", "reader-password")
	assertRedirect(t, resp, redirectRoot)
	return c
}

func createPost(t *testing.T, admin *testClient, title string) store.PostView {
	t.Helper()
	resp := admin.post(RouteNewPost, postValues(title))
	assertRedirect(t, resp, redirectRoot)

	posts, err := admin.app.repo.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	for _, p := range posts {
		if p.Title == title {
			return p
		}
	}
	t.Fatalf("post %q not stored", title)
	return store.PostView{}
}

func assertStatus(t *testing.T, resp response, want int) {
	t.Helper()
	if resp.status != want {
		t.Fatalf("status = %d, want %d; body: %s", resp.status, want, resp.body)
	}
}

func assertRedirect(t *testing.T, resp response, location string) {
	t.Helper()
	assertStatus(t, resp, http.StatusSeeOther)
	if resp.location != location {
		t.Fatalf("Location = %q, want %q", resp.location, location)
	}
}

func assertContains(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Errorf("body does not contain %q", want)
	}
}

func assertNotContains(t *testing.T, body, unwanted string) {
	t.Helper()
	if strings.Contains(body, unwanted) {
		t.Errorf("body unexpectedly contains %q", unwanted)
	}
}

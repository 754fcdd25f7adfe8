package handler

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient(t)

	resp := c.get(RouteHealth)
	assertStatus(t, resp, http.StatusOK)
	if ct := resp.header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var status HealthStatus
	if err := json.Unmarshal([]byte(resp.body), &status); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("Status = %q, want ok", status.Status)
	}
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient(t)

	resp := c.get("/no-such-page")
	assertStatus(t, resp, http.StatusNotFound)
	assertContains(t, resp.body, "404 Not Found")
}

func TestStaticPages(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient(t)

	for _, path := range []string{RouteAbout, RouteContact} {
		resp := c.get(path)
		if resp.status != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.status)
		}
		assertContains(t, resp.body, "<h1")
	}
}

func TestStaticAssets(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient(t)

	resp := c.get("/static/css/quill.css")
	assertStatus(t, resp, http.StatusOK)

	assertStatus(t, c.get("/static/css/missing.css"), http.StatusNotFound)
}

func TestTrailingSlashRedirect(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient(t)

	resp := c.get("/about/")
	assertStatus(t, resp, http.StatusMovedPermanently)
	if resp.location != RouteAbout {
		t.Errorf("Location = %q, want %q", resp.location, RouteAbout)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient(t)

	resp := c.get(RouteRoot)
	assertStatus(t, resp, http.StatusOK)
	if resp.header.Get("Content-Security-Policy") == "" {
		t.Error("missing Content-Security-Policy header")
	}
	if got := resp.header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestCrossOriginPostRejected(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient(t)

	req, err := http.NewRequest(http.MethodPost, app.server.URL+RouteLogin, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	resp := c.do(req)
	assertStatus(t, resp, http.StatusForbidden)
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/olegiv/quill/internal/middleware"
	"github.com/olegiv/quill/internal/store"
)

func TestCreatePost_RoundTrip(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)

	post := createPost(t, admin, "First Post")
	if post.Date != "October 04, 2026" {
		t.Errorf("Date = %q, want %q", post.Date, "October 04, 2026")
	}

	resp := admin.get(postURL(post.ID))
	assertStatus(t, resp, http.StatusOK)
	assertContains(t, resp.body, "First Post")
	assertContains(t, resp.body, "A subtitle")
	assertContains(t, resp.body, "Posted by Admin on October 04, 2026")
	assertContains(t, resp.body, "<strong>world</strong>")
	assertContains(t, resp.body, editURL(post.ID))

	resp = admin.get(RouteRoot)
	assertContains(t, resp.body, "First Post")
	assertContains(t, resp.body, fmt.Sprintf(`href="/delete/%d"`, post.ID))
}

func TestCreatePost_SanitizesBody(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)

	values := postValues("Scripted")
	values.Set("body", `<p>safe</p><script>alert(1)</script>`)
	assertRedirect(t, admin.post(RouteNewPost, values), redirectRoot)

	posts, err := app.repo.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}

	resp := admin.get(postURL(posts[0].ID))
	assertContains(t, resp.body, "<p>safe</p>")
	assertNotContains(t, resp.body, "<script>alert(1)</script>")
}

func TestCreatePost_Invalid(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)

	values := postValues("Broken")
	values.Set("img_url", "not a url")
	values.Set("subtitle", "")

	resp := admin.post(RouteNewPost, values)
	assertStatus(t, resp, http.StatusUnprocessableEntity)
	assertContains(t, resp.body, "Invalid URL.")
	assertContains(t, resp.body, "This field is required.")
	assertContains(t, resp.body, `value="Broken"`)

	posts, err := app.repo.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("len(posts) = %d, want 0", len(posts))
	}
}

func TestCreatePost_DuplicateTitle(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)
	createPost(t, admin, "Same Title")

	resp := admin.post(RouteNewPost, postValues("Same Title"))
	assertStatus(t, resp, http.StatusUnprocessableEntity)
	assertContains(t, resp.body, msgDuplicateTitle)
}

func TestAdminRoutes_Forbidden(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)
	post := createPost(t, admin, "Protected")
	reader := newReader(t, app, "reader@example.com")
	anonymous := app.newClient(t)

	edit := editURL(post.ID)
	del := fmt.Sprintf("/delete/%d", post.ID)

	for _, c := range []*testClient{reader, anonymous} {
		assertStatus(t, c.get(RouteNewPost), http.StatusForbidden)
		assertStatus(t, c.post(RouteNewPost, postValues("Sneaky")), http.StatusForbidden)
		assertStatus(t, c.get(edit), http.StatusForbidden)
		assertStatus(t, c.post(edit, postValues("Hijacked")), http.StatusForbidden)
		assertStatus(t, c.get(del), http.StatusForbidden)
	}

	got, err := app.repo.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if got.Title != "Protected" {
		t.Errorf("Title = %q, want %q", got.Title, "Protected")
	}
	posts, err := app.repo.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("len(posts) = %d, want 1", len(posts))
	}
}

func TestEditPost(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)
	post := createPost(t, admin, "Old Title")

	resp := admin.get(editURL(post.ID))
	assertStatus(t, resp, http.StatusOK)
	assertContains(t, resp.body, `value="Old Title"`)
	assertContains(t, resp.body, fmt.Sprintf(`action="/edit-post/%d"`, post.ID))

	// A later edit keeps the original date
	app.posts.SetClock(func() time.Time { return time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC) })
	values := postValues("New Title")
	assertRedirect(t, admin.post(editURL(post.ID), values), postURL(post.ID))

	got, err := app.repo.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if got.Title != "New Title" {
		t.Errorf("Title = %q, want %q", got.Title, "New Title")
	}
	if got.Date != post.Date {
		t.Errorf("Date = %q, want %q", got.Date, post.Date)
	}
	if got.AuthorID != post.AuthorID {
		t.Errorf("AuthorID = %d, want %d", got.AuthorID, post.AuthorID)
	}

	resp = admin.get(postURL(post.ID))
	assertContains(t, resp.body, "New Title")
	assertNotContains(t, resp.body, "Old Title")
}

var bodyTextareaRegex = regexp.MustCompile(`(?s)<textarea id="body" name="body"[^>]*>(.*?)</textarea>`)

func TestEditPost_TitleOnlyKeepsBody(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)

	const body = "<pre>line1\n\nline2</pre>\n\n<p>after</p>"
	values := postValues("Spacing")
	values.Set("body", body)
	assertRedirect(t, admin.post(RouteNewPost, values), redirectRoot)

	posts, err := app.repo.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}
	post := posts[0]

	resp := admin.get(postURL(post.ID))
	assertContains(t, resp.body, "<pre>line1\n\nline2</pre>")

	resp = admin.get(editURL(post.ID))
	assertStatus(t, resp, http.StatusOK)
	m := bodyTextareaRegex.FindStringSubmatch(resp.body)
	if m == nil {
		t.Fatal("edit form has no body textarea")
	}
	prefilled := html.UnescapeString(m[1])
	if prefilled != body {
		t.Fatalf("textarea = %q, want %q", prefilled, body)
	}

	values = postValues("Spacing, edited")
	values.Set("body", prefilled)
	assertRedirect(t, admin.post(editURL(post.ID), values), postURL(post.ID))

	got, err := app.repo.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if got.Body != body {
		t.Errorf("Body = %q, want %q", got.Body, body)
	}
	if got.Title != "Spacing, edited" {
		t.Errorf("Title = %q, want %q", got.Title, "Spacing, edited")
	}
}

func TestEditPost_NotFound(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)

	assertStatus(t, admin.get("/edit-post/999"), http.StatusNotFound)
	assertStatus(t, admin.post("/edit-post/999", postValues("Ghost")), http.StatusNotFound)
	assertStatus(t, admin.get("/delete/999"), http.StatusNotFound)
}

func TestDeletePost_RemovesComments(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)
	post := createPost(t, admin, "Doomed")
	reader := newReader(t, app, "reader@example.com")

	for i := range 3 {
		resp := reader.post(postURL(post.ID), url.Values{"comment_text": {fmt.Sprintf("comment %d", i)}})
		assertRedirect(t, resp, postURL(post.ID))
	}

	ctx := context.Background()
	comments, err := app.repo.ListCommentsForPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListCommentsForPost: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("len(comments) = %d, want 3", len(comments))
	}

	assertRedirect(t, admin.get(fmt.Sprintf("/delete/%d", post.ID)), redirectRoot)

	if _, err := app.repo.GetPostByID(ctx, post.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetPostByID err = %v, want ErrNotFound", err)
	}
	n, err := app.repo.CountCommentsForPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("CountCommentsForPost: %v", err)
	}
	if n != 0 {
		t.Errorf("CountCommentsForPost = %d, want 0", n)
	}
	assertStatus(t, reader.get(postURL(post.ID)), http.StatusNotFound)
}

func TestShowPost_NotFound(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient(t)

	for _, path := range []string{"/post/999", "/post/0", "/post/-1", "/post/abc"} {
		resp := c.get(path)
		if resp.status != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.status)
		}
		assertContains(t, resp.body, "Not Found")
	}
}

func TestComment_Anonymous(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)
	post := createPost(t, admin, "Open Thread")

	c := app.newClient(t)
	resp := c.post(postURL(post.ID), url.Values{"comment_text": {"drive-by"}})
	assertRedirect(t, resp, redirectLogin)

	resp = c.get(RouteLogin)
	assertContains(t, resp.body, middleware.MsgLoginToComment)

	comments, err := app.repo.ListCommentsForPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListCommentsForPost: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("len(comments) = %d, want 0", len(comments))
	}
}

func TestComment_ShowsAuthor(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)
	post := createPost(t, admin, "Discussion")
	reader := newReader(t, app, "reader@example.com")

	resp := reader.post(postURL(post.ID), url.Values{"comment_text": {"Nice <b>post</b>"}})
	assertRedirect(t, resp, postURL(post.ID))

	resp = reader.get(postURL(post.ID))
	assertStatus(t, resp, http.StatusOK)
	assertContains(t, resp.body, "Nice &lt;b&gt;post&lt;/b&gt;")
	assertContains(t, resp.body, "Reader")
	assertContains(t, resp.body, "https://www.gravatar.com/avatar/")
	// Readers see no admin controls
	assertNotContains(t, resp.body, editURL(post.ID))
}

func TestComment_Empty(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)
	post := createPost(t, admin, "Quiet")

	resp := admin.post(postURL(post.ID), url.Values{"comment_text": {"   "}})
	assertStatus(t, resp, http.StatusUnprocessableEntity)
	assertContains(t, resp.body, "This field is required.")
	assertContains(t, resp.body, "Quiet")
}

func TestComment_UnknownPost(t *testing.T) {
	app := newTestApp(t)
	reader := newReader(t, app, "reader@example.com")

	resp := reader.post("/post/999", url.Values{"comment_text": {"hello?"}})
	assertStatus(t, resp, http.StatusNotFound)
}

// A reader who is not the admin cannot remove a post even after
// commenting on it, and the admin still can.
func TestReaderCannotDeleteAdminCan(t *testing.T) {
	app := newTestApp(t)
	admin := newAdmin(t, app)
	post := createPost(t, admin, "Shared")
	reader := newReader(t, app, "b@example.com")

	assertRedirect(t, reader.post(postURL(post.ID), url.Values{"comment_text": {"mine"}}), postURL(post.ID))
	assertStatus(t, reader.get(fmt.Sprintf("/delete/%d", post.ID)), http.StatusForbidden)

	if _, err := app.repo.GetPostByID(context.Background(), post.ID); err != nil {
		t.Fatalf("post removed by reader: %v", err)
	}

	assertRedirect(t, admin.get(fmt.Sprintf("/delete/%d", post.ID)), redirectRoot)
	resp := admin.get(RouteRoot)
	assertContains(t, resp.body, "No posts yet.")
}

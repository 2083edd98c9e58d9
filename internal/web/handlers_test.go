package web

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hollisb/marginalia/internal/config"
	"github.com/hollisb/marginalia/internal/ops"
	"github.com/hollisb/marginalia/internal/store"
)

const testArticleBody = "# Foxes\n\nThe quick brown fox jumps over the lazy dog."

// testServer creates an HTTP server backed by a temporary database.
func testServer(t *testing.T) (*http.Server, *sql.DB) {
	t.Helper()

	database, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	return NewServer(database, cfg, "test", "127.0.0.1", 0), database
}

// get performs a GET request against the server handler.
func get(t *testing.T, srv *http.Server, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestRootRedirectsToArticles(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/articles" {
		t.Errorf("Location = %q, want /articles", loc)
	}
}

func TestIndexEmpty(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/articles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No articles yet") {
		t.Error("empty index should show the empty state")
	}
}

func TestIndexListsArticles(t *testing.T) {
	srv, database := testServer(t)

	added, err := ops.AddArticle(database, config.DefaultConfig(), ops.AddArticleInput{
		Title:   "Pangrams",
		Content: testArticleBody,
	})
	if err != nil {
		t.Fatalf("AddArticle failed: %v", err)
	}

	rec := get(t, srv, "/articles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Pangrams") {
		t.Error("index should list the article title")
	}
	if !strings.Contains(body, "/articles/"+added.ID) {
		t.Error("index should link to the article page")
	}
}

func TestArticlePageShowsHighlightsAndNotes(t *testing.T) {
	srv, database := testServer(t)
	cfg := config.DefaultConfig()

	added, err := ops.AddArticle(database, cfg, ops.AddArticleInput{
		Title:   "Pangrams",
		Content: testArticleBody,
	})
	if err != nil {
		t.Fatalf("AddArticle failed: %v", err)
	}

	hl, err := ops.CreateHighlight(database, ops.CreateHighlightInput{
		ArticleID: added.ID,
		Quote:     "quick brown",
		Color:     "blue",
	})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	if _, err := ops.AddNote(database, ops.AddNoteInput{
		HighlightID: hl.ID,
		Content:     "the famous phrase",
	}); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}

	rec := get(t, srv, "/articles/"+added.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()

	if !strings.Contains(body, `data-highlight-id="`+hl.ID+`"`) {
		t.Error("article page should contain the rendered mark")
	}
	if !strings.Contains(body, "hl-blue") {
		t.Error("article page should carry the highlight color class")
	}
	if !strings.Contains(body, "the famous phrase") {
		t.Error("article page should show the note in the margin")
	}
}

func TestArticlePagePlainText(t *testing.T) {
	srv, database := testServer(t)
	cfg := config.DefaultConfig()

	added, err := ops.AddArticle(database, cfg, ops.AddArticleInput{
		Title:   "Plain",
		Content: "the quick brown fox jumps over the lazy dog",
		Format:  ops.FormatText,
	})
	if err != nil {
		t.Fatalf("AddArticle failed: %v", err)
	}

	if _, err := ops.CreateHighlight(database, ops.CreateHighlightInput{
		ArticleID: added.ID,
		Quote:     "brown fox",
	}); err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	rec := get(t, srv, "/articles/"+added.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "plain-article") {
		t.Error("plain articles should render inside a pre block")
	}
	if !strings.Contains(body, ">brown fox</mark>") {
		t.Error("plain article should contain the rendered mark")
	}
}

func TestArticlePageNotFound(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/articles/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Error 404") {
		t.Error("missing article should render the error page")
	}
}

func TestArticlePageNotFoundJSON(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/articles/does-not-exist", map[string]string{
		"Accept": "application/json",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(rec.Body.String(), "NOT_FOUND") {
		t.Error("JSON error should carry the error code")
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/articles", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("Content-Security-Policy header missing")
	}
}

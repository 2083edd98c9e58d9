package ops

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/hollisb/marginalia/internal/config"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/store"
)

func addTestArticle(t *testing.T, database *sql.DB, title, content string, format ArticleFormat) string {
	t.Helper()
	out, err := AddArticle(database, config.DefaultConfig(), AddArticleInput{
		Title:   title,
		Content: content,
		Format:  format,
	})
	if err != nil {
		t.Fatalf("AddArticle failed: %v", err)
	}
	return out.ID
}

func TestCreateHighlight_TokenContent(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	out, err := CreateHighlight(database, CreateHighlightInput{
		ArticleID: articleID,
		Quote:     "quick brown fox",
		Color:     "blue",
	})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}
	if out.Kind != "token_span" {
		t.Errorf("Kind = %q, want token_span", out.Kind)
	}
	if out.Text != "quick brown fox" {
		t.Errorf("Text = %q, want %q", out.Text, "quick brown fox")
	}

	h, err := store.GetHighlightByID(database, out.ID, false)
	if err != nil {
		t.Fatalf("GetHighlightByID failed: %v", err)
	}
	if h.Color != "blue" {
		t.Errorf("Color = %q, want blue", h.Color)
	}
	if h.Position == "" {
		t.Error("Position is empty")
	}
}

func TestCreateHighlight_ExpandsToTokenBoundaries(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	// A quote cutting into "brown" expands to the whole word.
	out, err := CreateHighlight(database, CreateHighlightInput{
		ArticleID: articleID,
		Quote:     "quick brow",
	})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}
	if out.Text != "quick brown" {
		t.Errorf("Text = %q, want expanded %q", out.Text, "quick brown")
	}
}

func TestCreateHighlight_SingleWordQuote(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	// A one-word quote resolves to a range inside a single token's text node.
	// It must still encode as a token span, and rendering must mark it.
	out, err := CreateHighlight(database, CreateHighlightInput{
		ArticleID: articleID,
		Quote:     "quick",
	})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}
	if out.Kind != "token_span" {
		t.Errorf("Kind = %q, want token_span", out.Kind)
	}
	if out.Text != "quick" {
		t.Errorf("Text = %q, want %q", out.Text, "quick")
	}

	rendered, err := RenderArticle(database, config.DefaultConfig(), RenderArticleInput{ArticleID: articleID})
	if err != nil {
		t.Fatalf("RenderArticle failed: %v", err)
	}
	if !strings.Contains(rendered.Content, `data-highlight-id="`+out.ID+`"`) {
		t.Errorf("rendered content missing mark for %s:\n%s", out.ID, rendered.Content)
	}
	if len(rendered.Report.Skipped()) != 0 {
		t.Errorf("Skipped = %v, want none", rendered.Report.Skipped())
	}
}

func TestCreateHighlight_PlainTextContent(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Plain", "the brown fox jumps", FormatText)

	out, err := CreateHighlight(database, CreateHighlightInput{
		ArticleID: articleID,
		Quote:     "brown fox",
	})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}
	if out.Kind != "legacy" {
		t.Errorf("Kind = %q, want legacy", out.Kind)
	}
	if out.Text != "brown fox" {
		t.Errorf("Text = %q, want %q", out.Text, "brown fox")
	}
}

func TestCreateHighlight_WithNote(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	out, err := CreateHighlight(database, CreateHighlightInput{
		ArticleID: articleID,
		Quote:     "lazy dog",
		Note:      "classic pangram tail",
	})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	notes, err := ListNotes(database, ListNotesInput{HighlightID: out.ID})
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if notes.Total != 1 || notes.Items[0].Content != "classic pangram tail" {
		t.Errorf("notes = %+v, want the creation note", notes.Items)
	}
}

func TestCreateHighlight_EmptyQuote(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	_, err := CreateHighlight(database, CreateHighlightInput{ArticleID: articleID, Quote: "   "})
	if !errors.Is(err, errors.ErrEmptySelection) {
		t.Errorf("error = %v, want EMPTY_SELECTION", err)
	}
}

func TestCreateHighlight_QuoteNotFound(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	_, err := CreateHighlight(database, CreateHighlightInput{ArticleID: articleID, Quote: "no such phrase"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestCreateHighlight_MissingArticle(t *testing.T) {
	database := setupDB(t)

	_, err := CreateHighlight(database, CreateHighlightInput{ArticleID: "missing", Quote: "x"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestCreateHighlight_Occurrence(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Repeat", "alpha beta alpha gamma", FormatText)

	out, err := CreateHighlight(database, CreateHighlightInput{
		ArticleID:  articleID,
		Quote:      "alpha",
		Occurrence: 2,
	})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}
	if out.Text != "alpha" {
		t.Errorf("Text = %q, want alpha", out.Text)
	}

	// A third occurrence does not exist
	_, err = CreateHighlight(database, CreateHighlightInput{
		ArticleID:  articleID,
		Quote:      "alpha",
		Occurrence: 3,
	})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

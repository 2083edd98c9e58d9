package ops

import (
	"testing"

	"github.com/hollisb/marginalia/internal/errors"
)

func TestRestoreHighlight_TokenContent(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	hl, err := CreateHighlight(database, CreateHighlightInput{
		ArticleID: articleID,
		Quote:     "quick brown fox",
	})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	out, err := RestoreHighlight(database, RestoreHighlightInput{HighlightID: hl.ID})
	if err != nil {
		t.Fatalf("RestoreHighlight failed: %v", err)
	}
	if out.Strategy != "tokens" {
		t.Errorf("Strategy = %q, want tokens", out.Strategy)
	}
	if out.Kind != "token_span" {
		t.Errorf("Kind = %q, want token_span", out.Kind)
	}
	if out.Text != "quick brown fox" {
		t.Errorf("Text = %q, want %q", out.Text, "quick brown fox")
	}
	if out.Drifted {
		t.Error("Drifted = true, want false")
	}
}

func TestRestoreHighlight_PlainText(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Plain", "the brown fox jumps", FormatText)

	hl, err := CreateHighlight(database, CreateHighlightInput{ArticleID: articleID, Quote: "brown fox"})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	out, err := RestoreHighlight(database, RestoreHighlightInput{HighlightID: hl.ID})
	if err != nil {
		t.Fatalf("RestoreHighlight failed: %v", err)
	}
	if out.Strategy != "text_search" {
		t.Errorf("Strategy = %q, want text_search", out.Strategy)
	}
	if out.Text != "brown fox" {
		t.Errorf("Text = %q, want %q", out.Text, "brown fox")
	}
}

func TestRestoreHighlight_MissingHighlight(t *testing.T) {
	database := setupDB(t)

	_, err := RestoreHighlight(database, RestoreHighlightInput{HighlightID: "missing"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

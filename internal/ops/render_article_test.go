package ops

import (
	"strings"
	"testing"

	"github.com/hollisb/marginalia/internal/config"
	"github.com/hollisb/marginalia/internal/errors"
)

func TestRenderArticle_TokenContent(t *testing.T) {
	database := setupDB(t)
	cfg := config.DefaultConfig()
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	hl, err := CreateHighlight(database, CreateHighlightInput{
		ArticleID: articleID,
		Quote:     "quick brown fox",
	})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	out, err := RenderArticle(database, cfg, RenderArticleInput{ArticleID: articleID})
	if err != nil {
		t.Fatalf("RenderArticle failed: %v", err)
	}

	if !strings.Contains(out.Content, `data-highlight-id="`+hl.ID+`"`) {
		t.Errorf("rendered content missing mark for %s:\n%s", hl.ID, out.Content)
	}
	if !strings.Contains(out.Content, `data-has-notes="false"`) {
		t.Errorf("rendered content missing has-notes attribute:\n%s", out.Content)
	}
	if len(out.Report.Skipped()) != 0 {
		t.Errorf("Skipped = %v, want none", out.Report.Skipped())
	}
}

func TestRenderArticle_Deterministic(t *testing.T) {
	database := setupDB(t)
	cfg := config.DefaultConfig()
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	for _, quote := range []string{"lazy dog", "quick brown"} {
		if _, err := CreateHighlight(database, CreateHighlightInput{ArticleID: articleID, Quote: quote}); err != nil {
			t.Fatalf("CreateHighlight(%q) failed: %v", quote, err)
		}
	}

	first, err := RenderArticle(database, cfg, RenderArticleInput{ArticleID: articleID})
	if err != nil {
		t.Fatalf("RenderArticle failed: %v", err)
	}
	second, err := RenderArticle(database, cfg, RenderArticleInput{ArticleID: articleID})
	if err != nil {
		t.Fatalf("RenderArticle failed: %v", err)
	}
	if first.Content != second.Content {
		t.Errorf("repeated renders differ:\nfirst:  %s\nsecond: %s", first.Content, second.Content)
	}
}

func TestRenderArticle_PlainText(t *testing.T) {
	database := setupDB(t)
	cfg := config.DefaultConfig()
	articleID := addTestArticle(t, database, "Plain", "the brown fox jumps", FormatText)

	if _, err := CreateHighlight(database, CreateHighlightInput{ArticleID: articleID, Quote: "brown fox"}); err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	out, err := RenderArticle(database, cfg, RenderArticleInput{ArticleID: articleID})
	if err != nil {
		t.Fatalf("RenderArticle failed: %v", err)
	}
	if out.ContentHTML {
		t.Error("ContentHTML = true, want false")
	}
	if !strings.Contains(out.Content, ">brown fox</mark>") {
		t.Errorf("plain content not marked: %s", out.Content)
	}
}

func TestRenderArticle_ConfiguredTheme(t *testing.T) {
	database := setupDB(t)
	cfg := config.DefaultConfig()
	cfg.DefaultColor = "green"
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	if _, err := CreateHighlight(database, CreateHighlightInput{ArticleID: articleID, Quote: "lazy"}); err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	out, err := RenderArticle(database, cfg, RenderArticleInput{ArticleID: articleID})
	if err != nil {
		t.Fatalf("RenderArticle failed: %v", err)
	}
	if !strings.Contains(out.Content, `class="hl-green"`) {
		t.Errorf("configured default color not applied: %s", out.Content)
	}
}

func TestRenderArticle_NoHighlights(t *testing.T) {
	database := setupDB(t)
	cfg := config.DefaultConfig()
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	out, err := RenderArticle(database, cfg, RenderArticleInput{ArticleID: articleID})
	if err != nil {
		t.Fatalf("RenderArticle failed: %v", err)
	}
	if strings.Contains(out.Content, "data-highlight-id") {
		t.Errorf("unexpected marks in content: %s", out.Content)
	}
	if len(out.Report.Outcomes) != 0 {
		t.Errorf("Outcomes = %v, want empty", out.Report.Outcomes)
	}
}

func TestRenderArticle_MissingArticle(t *testing.T) {
	database := setupDB(t)

	_, err := RenderArticle(database, config.DefaultConfig(), RenderArticleInput{ArticleID: "missing"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

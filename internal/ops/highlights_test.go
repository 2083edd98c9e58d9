package ops

import (
	"testing"

	"github.com/hollisb/marginalia/internal/config"
	"github.com/hollisb/marginalia/internal/errors"
)

func TestListHighlights_CreationOrder(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)

	first, err := CreateHighlight(database, CreateHighlightInput{ArticleID: articleID, Quote: "lazy dog"})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}
	second, err := CreateHighlight(database, CreateHighlightInput{ArticleID: articleID, Quote: "quick brown"})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	out, err := ListHighlights(database, ListHighlightsInput{ArticleID: articleID})
	if err != nil {
		t.Fatalf("ListHighlights failed: %v", err)
	}
	if out.Total != 2 {
		t.Fatalf("Total = %d, want 2", out.Total)
	}
	if out.Items[0].ID != first.ID || out.Items[1].ID != second.ID {
		t.Errorf("order = [%s, %s], want creation order", out.Items[0].ID, out.Items[1].ID)
	}
}

func TestListHighlights_MissingArticle(t *testing.T) {
	database := setupDB(t)

	_, err := ListHighlights(database, ListHighlightsInput{ArticleID: "missing"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestDeleteHighlight(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)
	hl, err := CreateHighlight(database, CreateHighlightInput{ArticleID: articleID, Quote: "lazy"})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	out, err := DeleteHighlight(database, DeleteHighlightInput{ID: hl.ID})
	if err != nil {
		t.Fatalf("DeleteHighlight failed: %v", err)
	}
	if !out.Deleted {
		t.Error("Deleted = false, want true")
	}

	// Deleted highlight no longer renders
	rendered, err := RenderArticle(database, config.DefaultConfig(), RenderArticleInput{ArticleID: articleID})
	if err != nil {
		t.Fatalf("RenderArticle failed: %v", err)
	}
	if len(rendered.Report.Outcomes) != 0 {
		t.Errorf("Outcomes = %v, want empty after delete", rendered.Report.Outcomes)
	}

	// Deleting twice is NOT_FOUND
	if _, err := DeleteHighlight(database, DeleteHighlightInput{ID: hl.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second delete error = %v, want NOT_FOUND", err)
	}
}

func TestUpdateColor(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Foxes", articleMarkdown, FormatMarkdown)
	hl, err := CreateHighlight(database, CreateHighlightInput{ArticleID: articleID, Quote: "lazy", Color: "yellow"})
	if err != nil {
		t.Fatalf("CreateHighlight failed: %v", err)
	}

	out, err := UpdateColor(database, UpdateColorInput{ID: hl.ID, Color: "pink"})
	if err != nil {
		t.Fatalf("UpdateColor failed: %v", err)
	}
	if out.Color != "pink" {
		t.Errorf("Color = %q, want pink", out.Color)
	}

	hs, err := ListHighlights(database, ListHighlightsInput{ArticleID: articleID})
	if err != nil {
		t.Fatalf("ListHighlights failed: %v", err)
	}
	if hs.Items[0].Color != "pink" {
		t.Errorf("stored color = %q, want pink", hs.Items[0].Color)
	}

	if _, err := UpdateColor(database, UpdateColorInput{ID: hl.ID}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty color error = %v, want INVALID_REQUEST", err)
	}
}

func TestListArticles_Pagination(t *testing.T) {
	database := setupDB(t)

	for _, title := range []string{"one", "two", "three"} {
		addTestArticle(t, database, title, "words for "+title, FormatText)
	}

	out, err := ListArticles(database, ListArticlesInput{Limit: 2})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(out.Items) != 2 {
		t.Errorf("len = %d, want 2", len(out.Items))
	}
	if !out.Pagination.HasMore {
		t.Error("HasMore = false, want true")
	}
	if out.Pagination.Total != 3 {
		t.Errorf("Total = %d, want 3", out.Pagination.Total)
	}

	rest, err := ListArticles(database, ListArticlesInput{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(rest.Items) != 1 || rest.Pagination.HasMore {
		t.Errorf("offset page = %+v", rest)
	}
}

func TestGetArticle_ByTitle(t *testing.T) {
	database := setupDB(t)
	articleID := addTestArticle(t, database, "Reading Notes", articleMarkdown, FormatMarkdown)

	out, err := GetArticle(database, GetArticleInput{Title: "  reading NOTES "})
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if out.Article.ID != articleID {
		t.Errorf("ID = %q, want %q", out.Article.ID, articleID)
	}

	if _, err := GetArticle(database, GetArticleInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("no selector error = %v, want INVALID_REQUEST", err)
	}
	if _, err := GetArticle(database, GetArticleInput{ID: "x", Title: "y"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("both selectors error = %v, want INVALID_REQUEST", err)
	}
}

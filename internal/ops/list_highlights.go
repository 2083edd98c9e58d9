package ops

import (
	"database/sql"

	"github.com/hollisb/marginalia/internal/highlight"
	"github.com/hollisb/marginalia/internal/store"
)

// ListHighlightsInput contains parameters for the ListHighlights operation.
type ListHighlightsInput struct {
	ArticleID string
}

// ListHighlightsOutput contains the result of the ListHighlights operation.
type ListHighlightsOutput struct {
	Items []*highlight.Highlight `json:"items"`
	Total int                    `json:"total"`
}

// ListHighlights retrieves an article's active highlights with their notes,
// in creation order.
func ListHighlights(database *sql.DB, input ListHighlightsInput) (*ListHighlightsOutput, error) {
	// Verify the article exists so a bad id is NOT_FOUND, not an empty list.
	if _, err := store.GetArticleByID(database, input.ArticleID); err != nil {
		return nil, err
	}

	hs, err := store.ListHighlightsByArticle(database, input.ArticleID)
	if err != nil {
		return nil, err
	}
	if hs == nil {
		hs = []*highlight.Highlight{}
	}

	return &ListHighlightsOutput{Items: hs, Total: len(hs)}, nil
}

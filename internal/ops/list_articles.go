package ops

import (
	"database/sql"

	"github.com/hollisb/marginalia/internal/highlight"
	"github.com/hollisb/marginalia/internal/store"
)

// ListArticlesInput contains parameters for the ListArticles operation.
type ListArticlesInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// ListArticlesOutput contains the result of the ListArticles operation.
type ListArticlesOutput struct {
	Items      []highlight.ArticleSummary `json:"items"`
	Pagination Pagination                 `json:"pagination"`
	Sort       string                     `json:"sort"`
}

// ListArticles retrieves article summaries with pagination, most recently
// updated first.
func ListArticles(database *sql.DB, input ListArticlesInput) (*ListArticlesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	articles, err := store.ListArticles(database, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := store.CountArticles(database)
	if err != nil {
		return nil, err
	}

	items := make([]highlight.ArticleSummary, 0, len(articles))
	for _, a := range articles {
		count, err := store.CountHighlightsByArticle(database, a.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, highlight.Summarize(a, count))
	}

	return &ListArticlesOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "updated_at_desc",
	}, nil
}

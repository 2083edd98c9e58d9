package ops

import (
	"database/sql"
	"strings"

	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/highlight"
	"github.com/hollisb/marginalia/internal/store"
)

// GetArticleInput contains parameters for the GetArticle operation.
// Exactly one of ID or Title must be set.
type GetArticleInput struct {
	ID    string
	Title string
}

// GetArticleOutput contains the result of the GetArticle operation.
type GetArticleOutput struct {
	Article    *highlight.Article     `json:"article"`
	Highlights []*highlight.Highlight `json:"highlights"`
}

// GetArticle retrieves an article and its active highlights, by id or by
// title.
func GetArticle(database *sql.DB, input GetArticleInput) (*GetArticleOutput, error) {
	a, err := resolveArticle(database, input.ID, input.Title)
	if err != nil {
		return nil, err
	}

	hs, err := store.ListHighlightsByArticle(database, a.ID)
	if err != nil {
		return nil, err
	}
	if hs == nil {
		hs = []*highlight.Highlight{}
	}

	return &GetArticleOutput{Article: a, Highlights: hs}, nil
}

// resolveArticle looks up an article by id or by title. Exactly one selector
// must be provided.
func resolveArticle(database *sql.DB, id, title string) (*highlight.Article, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)

	switch {
	case id != "" && title != "":
		return nil, errors.NewInvalidRequest("specify either id or title, not both")
	case id != "":
		return store.GetArticleByID(database, id)
	case title != "":
		return store.GetArticleByTitle(database, highlight.NormalizeTitle(title))
	default:
		return nil, errors.NewInvalidRequest("must specify either id or title")
	}
}

package ops

import (
	"database/sql"
	"strings"

	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/highlight"
	"github.com/hollisb/marginalia/internal/store"
)

// ListNotesInput contains parameters for the ListNotes operation.
// Exactly one of HighlightID or ArticleID must be set.
type ListNotesInput struct {
	HighlightID string
	ArticleID   string
}

// ListNotesOutput contains the result of the ListNotes operation.
type ListNotesOutput struct {
	Items []highlight.Note `json:"items"`
	Total int              `json:"total"`
}

// ListNotes retrieves a highlight's or an article's notes in creation order.
func ListNotes(database *sql.DB, input ListNotesInput) (*ListNotesOutput, error) {
	highlightID := strings.TrimSpace(input.HighlightID)
	articleID := strings.TrimSpace(input.ArticleID)
	if (highlightID == "") == (articleID == "") {
		return nil, errors.NewInvalidRequest("specify exactly one of highlight_id or article_id")
	}

	var (
		notes []highlight.Note
		err   error
	)
	if highlightID != "" {
		notes, err = store.ListNotesByHighlight(database, highlightID)
	} else {
		notes, err = store.ListNotesByArticle(database, articleID)
	}
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []highlight.Note{}
	}

	return &ListNotesOutput{Items: notes, Total: len(notes)}, nil
}

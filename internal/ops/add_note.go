package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/highlight"
	"github.com/hollisb/marginalia/internal/store"
)

// AddNoteInput contains parameters for the AddNote operation.
// Exactly one of HighlightID or ArticleID must be set.
type AddNoteInput struct {
	HighlightID string
	ArticleID   string
	Content     string // required
}

// AddNoteOutput contains the result of the AddNote operation.
type AddNoteOutput struct {
	ID string `json:"id"`
}

// AddNote attaches a note to a highlight or directly to an article.
func AddNote(database *sql.DB, input AddNoteInput) (*AddNoteOutput, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.NewInvalidRequest("content is required")
	}

	highlightID := strings.TrimSpace(input.HighlightID)
	articleID := strings.TrimSpace(input.ArticleID)
	if (highlightID == "") == (articleID == "") {
		return nil, errors.NewInvalidRequest("specify exactly one of highlight_id or article_id")
	}

	now := time.Now().Unix()
	n := &highlight.Note{Content: content, CreatedAt: now}

	// Validate the parent exists before inserting.
	if highlightID != "" {
		if _, err := store.GetHighlightByID(database, highlightID, false); err != nil {
			return nil, err
		}
		n.HighlightID = &highlightID
	} else {
		if _, err := store.GetArticleByID(database, articleID); err != nil {
			return nil, err
		}
		n.ArticleID = &articleID
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	n.ID = id

	if err := store.InsertNote(database, n); err != nil {
		return nil, err
	}

	return &AddNoteOutput{ID: id}, nil
}

package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hollisb/marginalia/internal/anchor"
	"github.com/hollisb/marginalia/internal/dom"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/highlight"
	"github.com/hollisb/marginalia/internal/position"
	"github.com/hollisb/marginalia/internal/store"
)

// CreateHighlightInput contains parameters for the CreateHighlight operation.
type CreateHighlightInput struct {
	ArticleID  string
	Quote      string // required, the text to highlight
	Occurrence int    // 1-based occurrence of the quote; default: 1
	Color      string // optional color name
	Note       string // optional note attached on creation
}

// CreateHighlightOutput contains the result of the CreateHighlight operation.
type CreateHighlightOutput struct {
	ID   string `json:"id"`
	Text string `json:"text"` // the stored text, after any token boundary expansion
	Kind string `json:"kind"` // position encoding kind
}

// CreateHighlight locates the quoted text in the stored article and persists
// a highlight with the strongest position encoding the content supports.
func CreateHighlight(database *sql.DB, input CreateHighlightInput) (*CreateHighlightOutput, error) {
	if strings.TrimSpace(input.Quote) == "" {
		return nil, errors.NewEmptySelection()
	}
	occurrence := input.Occurrence
	if occurrence <= 0 {
		occurrence = 1
	}

	a, err := store.GetArticleByID(database, input.ArticleID)
	if err != nil {
		return nil, err
	}

	var rec *position.Record
	if a.ContentHTML {
		rec, err = encodeInHTML(a.Content, input.Quote, occurrence)
	} else {
		rec, err = encodeInText(a.Content, input.Quote, occurrence)
	}
	if err != nil {
		return nil, err
	}

	encoded, err := position.Encode(rec)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	h := &highlight.Highlight{
		ID:        id,
		ArticleID: a.ID,
		Text:      rec.Text,
		Position:  encoded,
		Color:     input.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := store.InsertHighlight(database, h); err != nil {
		return nil, err
	}
	if err := store.TouchArticle(database, a.ID, now); err != nil {
		return nil, err
	}

	if note := strings.TrimSpace(input.Note); note != "" {
		noteID, err := generateULID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		n := &highlight.Note{ID: noteID, HighlightID: &id, Content: note, CreatedAt: now}
		if err := store.InsertNote(database, n); err != nil {
			return nil, err
		}
	}

	return &CreateHighlightOutput{
		ID:   id,
		Text: rec.Text,
		Kind: rec.Kind.String(),
	}, nil
}

// encodeInHTML locates the quote in HTML content and encodes its position,
// expanding selection boundaries to whole tokens where the content is
// token-addressable.
func encodeInHTML(content, quote string, occurrence int) (*position.Record, error) {
	doc, err := dom.Parse(content)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	rng, err := anchor.FindText(doc, quote, occurrence)
	if err != nil {
		return nil, err
	}
	return anchor.EncodeSelection(doc, rng)
}

// encodeInText locates the quote in plain content and encodes a text-search
// position carrying the matched text verbatim.
func encodeInText(content, quote string, occurrence int) (*position.Record, error) {
	pat, err := dom.LoosePattern(quote)
	if err != nil {
		return nil, errors.NewEmptySelection()
	}

	locs := pat.FindAllStringIndex(content, -1)
	if occurrence > len(locs) {
		return nil, errors.NewNotFound("text", quote)
	}
	loc := locs[occurrence-1]

	return position.NewLegacy("", content[loc[0]:loc[1]]), nil
}

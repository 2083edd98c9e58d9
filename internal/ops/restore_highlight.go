package ops

import (
	"database/sql"

	"github.com/hollisb/marginalia/internal/anchor"
	"github.com/hollisb/marginalia/internal/dom"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/position"
	"github.com/hollisb/marginalia/internal/store"
)

// RestoreHighlightInput contains parameters for the RestoreHighlight operation.
type RestoreHighlightInput struct {
	HighlightID string
}

// RestoreHighlightOutput contains the result of the RestoreHighlight operation.
type RestoreHighlightOutput struct {
	HighlightID string `json:"highlight_id"`
	Strategy    string `json:"strategy"` // which restoration strategy succeeded
	Kind        string `json:"kind"`     // position encoding kind
	Text        string `json:"text"`     // the text the restored range covers now
	Drifted     bool   `json:"drifted"`  // live text no longer matches the stored text
}

// RestoreHighlight resolves a stored highlight's position against the
// article's current content and reports which strategy succeeded. A position
// that no longer resolves is POSITION_NOT_FOUND, never a panic.
func RestoreHighlight(database *sql.DB, input RestoreHighlightInput) (*RestoreHighlightOutput, error) {
	h, err := store.GetHighlightByID(database, input.HighlightID, false)
	if err != nil {
		return nil, err
	}
	a, err := store.GetArticleByID(database, h.ArticleID)
	if err != nil {
		return nil, err
	}

	rec, err := position.Decode(h.Position)
	if err != nil {
		return nil, errors.NewPositionNotFound(h.ID)
	}

	// Plain-text articles parse to a single text run, which is exactly the
	// shape the text-search strategy expects.
	doc, err := dom.Parse(a.Content)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	restored, err := anchor.Restore(doc, rec, h.ID)
	if err != nil {
		return nil, err
	}

	return &RestoreHighlightOutput{
		HighlightID: h.ID,
		Strategy:    restored.Strategy.String(),
		Kind:        rec.Kind.String(),
		Text:        restored.Range.Text(doc.Container),
		Drifted:     restored.Drifted,
	}, nil
}

package anchor

import (
	"github.com/hollisb/marginalia/internal/dom"
	"github.com/hollisb/marginalia/internal/errors"
)

// FindText locates the nth occurrence (1-based) of a quoted text in the
// document's concatenated text, tolerating reflowed whitespace and case
// differences, and returns the corresponding node-local range. This is how a
// highlight is created from a quote when no live selection object exists
// (CLI, MCP, tests).
func FindText(doc *dom.Document, quote string, occurrence int) (dom.Range, error) {
	if doc == nil || doc.Container == nil {
		return dom.Range{}, errors.NewInvalidRequest("document is required")
	}
	if dom.NormalizeSpace(quote) == "" {
		return dom.Range{}, errors.NewEmptySelection()
	}
	if occurrence < 1 {
		occurrence = 1
	}

	pat, err := dom.LoosePattern(quote)
	if err != nil {
		return dom.Range{}, errors.NewInvalidRequest("quote cannot be compiled into a search pattern")
	}

	m := dom.BuildTextMap(doc.Root())
	locs := pat.FindAllStringIndex(m.Text(), -1)
	if len(locs) < occurrence {
		return dom.Range{}, errors.NewNotFound("quote occurrence", quote)
	}

	loc := locs[occurrence-1]
	rng, ok := m.Range(loc[0], loc[1])
	if !ok {
		return dom.Range{}, errors.NewNotFound("quote occurrence", quote)
	}
	return rng, nil
}

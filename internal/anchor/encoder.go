// Package anchor turns live selections into durable position records and
// turns stored records back into selection ranges against a possibly
// regenerated document. Encoding and restoration are pure over the document
// snapshot; neither mutates it.
package anchor

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/hollisb/marginalia/internal/dom"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/position"
)

// EncodeSelection captures a live selection as a position record.
//
// Token-addressable content yields a TokenSpan: both boundaries are expanded
// outward to whole-token edges first, because rendering later re-matches by
// token identifier and must never split a token. The stored text reflects the
// expanded selection, not the raw one. Content without token identifiers
// yields a structural anchor. Empty or whitespace-only selections are
// rejected; the caller must not persist a highlight after that.
func EncodeSelection(doc *dom.Document, rng dom.Range) (*position.Record, error) {
	if doc == nil || doc.Container == nil {
		return nil, errors.NewInvalidRequest("document is required")
	}
	if rng.IsZero() || strings.TrimSpace(rng.Text(doc.Root())) == "" {
		return nil, errors.NewEmptySelection()
	}

	// A selection confined to a single text node is its own common ancestor;
	// token markup lives on the enclosing element, so lift to it before
	// probing for tokens.
	anc := rng.CommonAncestor()
	if anc != nil && anc.Type == html.TextNode {
		anc = anc.Parent
	}
	if anc != nil && dom.HasTokens(anc) {
		if rec, err := encodeTokenSpan(doc, rng); err == nil {
			return rec, nil
		}
		// Malformed token markup: fall through to the structural regime.
	}
	return encodeStructural(doc, rng)
}

// encodeTokenSpan collects every token fully or partially covered by the
// selection and emits a TokenSpan whose text is the expanded range's value.
func encodeTokenSpan(doc *dom.Document, rng dom.Range) (*position.Record, error) {
	covered := map[string]bool{}
	var ids []string
	for _, n := range textNodesInRange(doc.Root(), rng) {
		tok, ok := dom.TokenElement(n)
		if !ok {
			// Inter-token whitespace contributes no token.
			continue
		}
		id, _ := dom.GetAttr(tok, dom.AttrTokenID)
		if !covered[id] {
			covered[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("selection covers no tokens")
	}

	dom.SortTokens(ids)

	// Expand to whole-token boundaries and take the expanded text.
	idx := dom.IndexTokens(doc)
	first, okF := idx.Lookup(ids[0])
	last, okL := idx.Lookup(ids[len(ids)-1])
	if !okF || !okL {
		return nil, fmt.Errorf("token index is inconsistent")
	}
	expanded, ok := dom.SpanRange(first, last)
	if !ok {
		return nil, fmt.Errorf("boundary token has no text")
	}

	return position.NewTokenSpan(ids, expanded.Text(doc.Root())), nil
}

// encodeStructural emits tag/sibling-index paths plus text-run offsets for
// both boundaries.
func encodeStructural(doc *dom.Document, rng dom.Range) (*position.Record, error) {
	startAnchor, ok := anchorFor(doc.Root(), rng.StartContainer)
	if !ok {
		return nil, errors.NewInvalidRequest("selection start is outside the document")
	}
	endAnchor, ok := anchorFor(doc.Root(), rng.EndContainer)
	if !ok {
		return nil, errors.NewInvalidRequest("selection end is outside the document")
	}

	containerPath := ""
	if anc := rng.CommonAncestor(); anc != nil {
		if steps, ok := dom.PathTo(doc.Root(), anc); ok {
			containerPath = dom.FormatPath(steps)
		}
	}

	return position.NewStructural(
		startAnchor, rng.StartOffset,
		endAnchor, rng.EndOffset,
		containerPath, rng.Text(doc.Root()),
	), nil
}

// anchorFor builds the wire path for a boundary text node: the enclosing
// element's structural path plus a text-run selector, e.g. "/div[1]/p[2]/text()[1]".
func anchorFor(root *html.Node, textNode *html.Node) (string, bool) {
	if textNode == nil {
		return "", false
	}
	el := textNode.Parent
	if el == nil || !dom.Contains(root, el) {
		return "", false
	}
	steps, ok := dom.PathTo(root, el)
	if !ok {
		return "", false
	}
	runIdx := dom.TextRunIndex(el, textNode)
	if runIdx < 0 {
		return "", false
	}
	return fmt.Sprintf("%s/text()[%d]", dom.FormatPath(steps), runIdx+1), true
}

// textNodesInRange returns the text nodes the range touches, boundaries
// included, in document order.
func textNodesInRange(root *html.Node, rng dom.Range) []*html.Node {
	var out []*html.Node
	inRange := false
	dom.Walk(root, func(n *html.Node) bool {
		if n.Type != html.TextNode {
			return true
		}
		if n == rng.StartContainer {
			inRange = true
		}
		if inRange {
			out = append(out, n)
		}
		if n == rng.EndContainer {
			return false
		}
		return true
	})
	return out
}

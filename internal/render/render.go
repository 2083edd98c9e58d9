// Package render turns raw article content plus stored highlights into
// annotated content with non-overlapping mark regions. Rendering is a pure
// function of its inputs: for a fixed (content, highlights) pair the output
// is byte-identical across runs, re-renders included.
package render

import (
	"html"
	"regexp"
	"sort"
	"strings"

	nethtml "golang.org/x/net/html"

	"github.com/hollisb/marginalia/internal/dom"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/highlight"
	"github.com/hollisb/marginalia/internal/position"
)

// Render annotates content with the given highlights.
//
// Token-addressable HTML goes through the token regime: only TokenSpan
// positions are eligible and spans are wrapped by DOM extraction. Plain text
// and HTML without token identifiers go through the legacy regime: literal
// text matching with whitespace-tolerant patterns and deterministic overlap
// resolution. Per-highlight failures never abort the render; they are
// reported in the returned Report.
func Render(content string, contentIsHTML bool, hs []highlight.Highlight, theme Theme) (string, *Report, error) {
	ids := make([]string, len(hs))
	for i := range hs {
		ids[i] = hs[i].ID
	}
	rb := newReportBuilder(ids)

	if !contentIsHTML {
		out := renderPlainText(content, hs, theme, rb)
		return out, rb.report(), nil
	}

	doc, err := dom.Parse(content)
	if err != nil {
		return "", nil, errors.NewInvalidRequest("content is not parseable HTML")
	}

	if dom.HasTokens(doc.Container) {
		renderTokenHTML(doc, hs, theme, rb)
	} else {
		renderLegacyHTML(doc, hs, theme, rb)
	}

	out, err := doc.Serialize()
	if err != nil {
		return "", nil, errors.NewInternal(err)
	}
	return out, rb.report(), nil
}

// renderTokenHTML wraps each eligible highlight's token span in a single
// mark element. Highlights are processed in document order of their first
// token (ties: wider span, then id) so output does not depend on input
// order.
func renderTokenHTML(doc *dom.Document, hs []highlight.Highlight, theme Theme, rb *reportBuilder) {
	idx := dom.IndexTokens(doc)

	type candidate struct {
		h     *highlight.Highlight
		ids   []string
		order int
	}
	var cands []candidate
	for i := range hs {
		h := &hs[i]
		rec, err := position.Decode(h.Position)
		if err != nil {
			rb.skip(h.ID, "position record is malformed")
			continue
		}
		if rec.Kind != position.KindTokenSpan {
			// Non-token positions need the legacy path, which does not apply
			// to freshly rendered token content.
			rb.skip(h.ID, "position is not token-addressed")
			continue
		}
		sorted := append([]string(nil), rec.TokenIDs...)
		dom.SortTokens(sorted)
		order, _ := dom.TokenOrder(sorted[0])
		cands = append(cands, candidate{h: h, ids: sorted, order: order})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].order != cands[j].order {
			return cands[i].order < cands[j].order
		}
		if len(cands[i].ids) != len(cands[j].ids) {
			return len(cands[i].ids) > len(cands[j].ids)
		}
		return cands[i].h.ID < cands[j].h.ID
	})

	for _, c := range cands {
		nodes := make([]*nethtml.Node, 0, len(c.ids))
		missing := false
		for _, id := range c.ids {
			n, ok := idx.Lookup(id)
			if !ok {
				missing = true
				break
			}
			nodes = append(nodes, n)
		}
		if missing {
			rb.skip(c.h.ID, "token not present in document")
			continue
		}

		// Idempotence: never double-wrap a span that is already rendered.
		already := false
		for _, n := range nodes {
			if dom.InsideMark(n) {
				already = true
				break
			}
		}
		if already {
			rb.skip(c.h.ID, "already rendered")
			continue
		}

		if err := wrapSpan(nodes[0], nodes[len(nodes)-1], markElement(theme, c.h)); err != nil {
			rb.skip(c.h.ID, "span could not be wrapped")
			continue
		}
		rb.rendered(c.h.ID)
	}
}

// textMatch is one candidate occurrence of a highlight's literal text.
type textMatch struct {
	start int
	end   int
	h     *highlight.Highlight
	seq   int // position in the longest-first candidate ordering
}

// renderLegacyHTML matches highlight texts inside each eligible text node
// and splices mark elements around the kept matches. Text nodes already
// inside marks are skipped.
func renderLegacyHTML(doc *dom.Document, hs []highlight.Highlight, theme Theme, rb *reportBuilder) {
	pats := compilePatterns(hs, rb)

	// Snapshot first: splicing replaces text nodes while we iterate.
	var eligible []*nethtml.Node
	for _, n := range dom.TextNodes(doc.Container) {
		if !dom.InsideMark(n) {
			eligible = append(eligible, n)
		}
	}

	renderedIDs := map[string]bool{}
	for _, node := range eligible {
		var cands []textMatch
		for _, p := range pats {
			for _, loc := range p.pat.FindAllStringIndex(node.Data, -1) {
				cands = append(cands, textMatch{start: loc[0], end: loc[1], h: p.h, seq: len(cands)})
			}
		}
		kept := resolveOverlaps(cands)
		if len(kept) == 0 {
			continue
		}
		spliceTextNode(node, kept, theme)
		for _, m := range kept {
			renderedIDs[m.h.ID] = true
		}
	}

	for _, p := range pats {
		if renderedIDs[p.h.ID] {
			rb.rendered(p.h.ID)
		} else {
			rb.skip(p.h.ID, "text not found")
		}
	}
}

// renderPlainText matches highlight texts over the whole plain content and
// splices mark tags into the string, leaving all unmatched text unchanged.
func renderPlainText(content string, hs []highlight.Highlight, theme Theme, rb *reportBuilder) string {
	pats := compilePatterns(hs, rb)

	var cands []textMatch
	for _, p := range pats {
		for _, loc := range p.pat.FindAllStringIndex(content, -1) {
			cands = append(cands, textMatch{start: loc[0], end: loc[1], h: p.h, seq: len(cands)})
		}
	}
	kept := resolveOverlaps(cands)

	renderedIDs := map[string]bool{}
	var sb strings.Builder
	prev := 0
	for _, m := range kept {
		sb.WriteString(content[prev:m.start])
		writeMarkTag(&sb, theme, m.h)
		sb.WriteString(content[m.start:m.end])
		sb.WriteString("</" + theme.tag() + ">")
		prev = m.end
		renderedIDs[m.h.ID] = true
	}
	sb.WriteString(content[prev:])

	for _, p := range pats {
		if renderedIDs[p.h.ID] {
			rb.rendered(p.h.ID)
		} else {
			rb.skip(p.h.ID, "text not found")
		}
	}
	return sb.String()
}

// patHighlight pairs a highlight with its compiled loose pattern.
type patHighlight struct {
	h   *highlight.Highlight
	pat *regexp.Regexp
}

// compilePatterns builds whitespace-tolerant, case-insensitive patterns,
// longest text first so the tie-break in overlap resolution favors the most
// specific highlight. Highlights with empty or uncompilable texts are
// reported as skipped.
func compilePatterns(hs []highlight.Highlight, rb *reportBuilder) []patHighlight {
	var out []patHighlight
	for i := range hs {
		h := &hs[i]
		if strings.TrimSpace(h.Text) == "" {
			rb.skip(h.ID, "highlight has no text")
			continue
		}
		pat, err := dom.LoosePattern(h.Text)
		if err != nil {
			rb.skip(h.ID, "text cannot be compiled into a search pattern")
			continue
		}
		out = append(out, patHighlight{h: h, pat: pat})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].h.Text) > len(out[j].h.Text)
	})
	return out
}

// resolveOverlaps keeps a deterministic non-overlapping subset of matches:
// sorted by start offset, ties broken by longer match first, then candidate
// order; a match survives only if it overlaps no already-kept match.
func resolveOverlaps(cands []textMatch) []textMatch {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		li, lj := cands[i].end-cands[i].start, cands[j].end-cands[j].start
		if li != lj {
			return li > lj
		}
		return cands[i].seq < cands[j].seq
	})

	var kept []textMatch
	for _, c := range cands {
		overlaps := false
		for _, k := range kept {
			if c.start < k.end && c.end > k.start {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}
	return kept
}

// spliceTextNode replaces a text node with an alternation of plain text and
// mark elements covering the kept matches. Unmatched text is preserved
// byte-for-byte.
func spliceTextNode(node *nethtml.Node, kept []textMatch, theme Theme) {
	parent := node.Parent
	prev := 0
	for _, m := range kept {
		if m.start > prev {
			parent.InsertBefore(&nethtml.Node{Type: nethtml.TextNode, Data: node.Data[prev:m.start]}, node)
		}
		mark := markElement(theme, m.h)
		mark.AppendChild(&nethtml.Node{Type: nethtml.TextNode, Data: node.Data[m.start:m.end]})
		parent.InsertBefore(mark, node)
		prev = m.end
	}
	if prev < len(node.Data) {
		parent.InsertBefore(&nethtml.Node{Type: nethtml.TextNode, Data: node.Data[prev:]}, node)
	}
	parent.RemoveChild(node)
}

// writeMarkTag writes the opening mark tag for the plain-text regime,
// escaping attribute values.
func writeMarkTag(sb *strings.Builder, theme Theme, h *highlight.Highlight) {
	sb.WriteString("<" + theme.tag())
	sb.WriteString(` ` + dom.AttrHighlightID + `="` + html.EscapeString(h.ID) + `"`)
	if h.HasNotes() {
		sb.WriteString(` ` + dom.AttrHasNotes + `="true"`)
	} else {
		sb.WriteString(` ` + dom.AttrHasNotes + `="false"`)
	}
	if cls := theme.markClass(h.Color, h.HasNotes()); cls != "" {
		sb.WriteString(` class="` + html.EscapeString(cls) + `"`)
	}
	sb.WriteString(">")
}

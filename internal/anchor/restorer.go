package anchor

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/hollisb/marginalia/internal/dom"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/position"
)

// Strategy identifies which restoration path produced a range.
type Strategy int

const (
	// StrategyMark selected an already-rendered mark for the highlight.
	// Cheapest and most reliable: it reflects exactly what the renderer did.
	StrategyMark Strategy = iota

	// StrategyTokens resolved every token identifier of a TokenSpan.
	StrategyTokens

	// StrategyMarkText matched a rendered mark by normalized text equality.
	StrategyMarkText

	// StrategyStructural resolved both structural anchors.
	StrategyStructural

	// StrategyTextSearch found the stored text by substring search.
	StrategyTextSearch
)

// String returns the strategy name for logs and reports.
func (s Strategy) String() string {
	switch s {
	case StrategyMark:
		return "mark"
	case StrategyTokens:
		return "tokens"
	case StrategyMarkText:
		return "mark_text"
	case StrategyStructural:
		return "structural"
	case StrategyTextSearch:
		return "text_search"
	}
	return "unknown"
}

// Restored is the result of a successful restoration. Drifted is set when
// the live text no longer equals the stored text: restoration still
// succeeded, but the underlying document changed since the highlight was
// created, and the caller may want to surface that.
type Restored struct {
	Range    dom.Range
	Strategy Strategy
	Drifted  bool
}

// Restore reconstructs a selection range for a stored position record,
// trying strategies in strict priority with graceful fallback. Each strategy
// is attempted only if the previous one failed; partial token resolution is
// a full failure for the token strategy, never a partial range. When every
// strategy is exhausted the error carries code POSITION_NOT_FOUND.
func Restore(doc *dom.Document, rec *position.Record, highlightID string) (*Restored, error) {
	if doc == nil || doc.Container == nil {
		return nil, errors.NewInvalidRequest("document is required")
	}
	if rec == nil {
		return nil, errors.NewInvalidRequest("position record is required")
	}

	if r, ok := restoreByMark(doc, rec, highlightID); ok {
		return r, nil
	}
	if r, ok := restoreByTokens(doc, rec); ok {
		return r, nil
	}
	if r, ok := restoreByMarkText(doc, rec); ok {
		return r, nil
	}
	if r, ok := restoreByStructural(doc, rec); ok {
		return r, nil
	}
	if r, ok := restoreByTextSearch(doc, rec); ok {
		return r, nil
	}
	return nil, errors.NewPositionNotFound(highlightID)
}

// restoreByMark selects the rendered mark carrying the highlight's id.
func restoreByMark(doc *dom.Document, rec *position.Record, highlightID string) (*Restored, bool) {
	if highlightID == "" {
		return nil, false
	}
	mark, ok := dom.MarkByID(doc, highlightID)
	if !ok {
		return nil, false
	}
	rng, ok := dom.NodeRange(mark)
	if !ok {
		return nil, false
	}
	return &Restored{
		Range:    rng,
		Strategy: StrategyMark,
		Drifted:  drifted(rec.Text, rng.Text(doc.Root())),
	}, true
}

// restoreByTokens resolves every token id of a TokenSpan; all must resolve.
func restoreByTokens(doc *dom.Document, rec *position.Record) (*Restored, bool) {
	if rec.Kind != position.KindTokenSpan || len(rec.TokenIDs) == 0 {
		return nil, false
	}

	idx := dom.IndexTokens(doc)
	ids := make([]string, len(rec.TokenIDs))
	copy(ids, rec.TokenIDs)
	dom.SortTokens(ids)

	for _, id := range ids {
		if _, ok := idx.Lookup(id); !ok {
			return nil, false
		}
	}

	first, _ := idx.Lookup(ids[0])
	last, _ := idx.Lookup(ids[len(ids)-1])
	rng, ok := dom.SpanRange(first, last)
	if !ok {
		return nil, false
	}

	return &Restored{
		Range:    rng,
		Strategy: StrategyTokens,
		Drifted:  drifted(rec.Text, rng.Text(doc.Root())),
	}, true
}

// restoreByMarkText scans rendered marks for one whose text equals the
// stored text after whitespace normalization.
func restoreByMarkText(doc *dom.Document, rec *position.Record) (*Restored, bool) {
	want := dom.NormalizeSpace(rec.Text)
	if want == "" {
		return nil, false
	}
	for _, mark := range dom.MarksIn(doc) {
		if dom.NormalizeSpace(dom.InnerText(mark)) != want {
			continue
		}
		rng, ok := dom.NodeRange(mark)
		if !ok {
			continue
		}
		return &Restored{Range: rng, Strategy: StrategyMarkText}, true
	}
	return nil, false
}

// restoreByStructural resolves both structural anchors back to text runs and
// validates the stored offsets. A bounds violation aborts this strategy, not
// the whole restore.
func restoreByStructural(doc *dom.Document, rec *position.Record) (*Restored, bool) {
	if rec.Kind != position.KindStructural {
		return nil, false
	}

	start, ok := resolveAnchor(doc, rec.StartAnchor, false)
	if !ok {
		return nil, false
	}
	end, ok := resolveAnchor(doc, rec.EndAnchor, true)
	if !ok {
		return nil, false
	}

	if rec.StartOffset < 0 || rec.StartOffset > len(start.Data) {
		return nil, false
	}
	if rec.EndOffset < 0 || rec.EndOffset > len(end.Data) {
		return nil, false
	}

	rng := dom.Range{
		StartContainer: start,
		StartOffset:    rec.StartOffset,
		EndContainer:   end,
		EndOffset:      rec.EndOffset,
	}
	return &Restored{
		Range:    rng,
		Strategy: StrategyStructural,
		Drifted:  drifted(rec.Text, rng.Text(doc.Root())),
	}, true
}

// restoreByTextSearch resolves the optional container hint, then searches
// the container's first text run for the stored text, case-insensitively.
func restoreByTextSearch(doc *dom.Document, rec *position.Record) (*Restored, bool) {
	if strings.TrimSpace(rec.Text) == "" {
		return nil, false
	}

	// Prefer the record's own container hint; a structural record offers its
	// container path instead.
	hint := rec.XPath
	if hint == "" {
		hint = rec.ContainerXPath
	}

	container := doc.Root()
	if hint != "" {
		n, found, err := dom.QueryXPathOne(doc, hint)
		if err != nil || !found {
			return nil, false
		}
		container = n
	}

	textNode, ok := dom.FirstTextNode(container)
	if !ok {
		return nil, false
	}

	idx := strings.Index(strings.ToLower(textNode.Data), strings.ToLower(rec.Text))
	if idx < 0 {
		return nil, false
	}

	end := idx + len(rec.Text)
	if end > len(textNode.Data) {
		end = len(textNode.Data)
	}
	rng := dom.Range{
		StartContainer: textNode,
		StartOffset:    idx,
		EndContainer:   textNode,
		EndOffset:      end,
	}
	return &Restored{
		Range:    rng,
		Strategy: StrategyTextSearch,
		Drifted:  drifted(rec.Text, rng.Text(doc.Root())),
	}, true
}

// textRunSuffix matches the trailing text-run selector of a wire anchor.
var textRunSuffix = regexp.MustCompile(`/text\(\)\[(\d+)\]$`)

// resolveAnchor resolves a wire anchor ("/div[1]/p[2]/text()[1]") to a text
// node. An anchor without a text-run selector resolves to an element; then
// descend to its first (start anchor) or last (end anchor) text run.
func resolveAnchor(doc *dom.Document, anchor string, wantLast bool) (*html.Node, bool) {
	anchor = strings.TrimSpace(anchor)
	if anchor == "" {
		return nil, false
	}

	runIdx := -1
	if m := textRunSuffix.FindStringSubmatch(anchor); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return nil, false
		}
		runIdx = n - 1
		anchor = anchor[:len(anchor)-len(m[0])]
	}

	steps, err := dom.ParsePath(anchor)
	if err != nil {
		return nil, false
	}
	el, ok := dom.ResolveSteps(doc.Root(), steps)
	if !ok {
		return nil, false
	}

	if runIdx >= 0 {
		return dom.NthTextRun(el, runIdx)
	}
	if wantLast {
		return dom.LastTextNode(el)
	}
	return dom.FirstTextNode(el)
}

// drifted compares stored and live text under whitespace normalization.
func drifted(stored, live string) bool {
	return dom.NormalizeSpace(stored) != dom.NormalizeSpace(live)
}

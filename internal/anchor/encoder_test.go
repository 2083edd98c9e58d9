package anchor

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/hollisb/marginalia/internal/dom"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/position"
)

// tokenizedSentence is "The quick brown fox" with one token per word.
const tokenizedSentence = `<p>` +
	`<span data-token-id="token-0">The</span> ` +
	`<span data-token-id="token-1">quick</span> ` +
	`<span data-token-id="token-2">brown</span> ` +
	`<span data-token-id="token-3">fox</span>` +
	`</p>`

func mustParse(t *testing.T, content string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(content)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return doc
}

// tokenText returns the text node inside the token element with the given id.
func tokenText(t *testing.T, doc *dom.Document, id string) *html.Node {
	t.Helper()
	idx := dom.IndexTokens(doc)
	el, ok := idx.Lookup(id)
	if !ok {
		t.Fatalf("token %q not found", id)
	}
	text, ok := dom.FirstTextNode(el)
	if !ok {
		t.Fatalf("token %q has no text", id)
	}
	return text
}

func TestEncodeSelection_MidTokenBoundariesExpand(t *testing.T) {
	doc := mustParse(t, tokenizedSentence)

	// Raw selection "quick brow": ends mid-way through "brown".
	rng := dom.Range{
		StartContainer: tokenText(t, doc, "token-1"), StartOffset: 0,
		EndContainer: tokenText(t, doc, "token-2"), EndOffset: 4,
	}

	rec, err := EncodeSelection(doc, rng)
	if err != nil {
		t.Fatalf("EncodeSelection error: %v", err)
	}

	if rec.Kind != position.KindTokenSpan {
		t.Fatalf("Kind = %v, want KindTokenSpan", rec.Kind)
	}
	if len(rec.TokenIDs) != 2 || rec.TokenIDs[0] != "token-1" || rec.TokenIDs[1] != "token-2" {
		t.Errorf("TokenIDs = %v, want [token-1 token-2]", rec.TokenIDs)
	}
	// Stored text reflects the expanded selection, not the raw one.
	if rec.Text != "quick brown" {
		t.Errorf("Text = %q, want %q", rec.Text, "quick brown")
	}
}

func TestEncodeSelection_SingleTextNodeSelection(t *testing.T) {
	doc := mustParse(t, tokenizedSentence)

	// Both boundaries sit in the same text node ("uick" inside "quick"), so
	// the selection's common ancestor is the text node itself. The content is
	// token-addressable and must still encode as a token span.
	text := tokenText(t, doc, "token-1")
	rng := dom.Range{
		StartContainer: text, StartOffset: 1,
		EndContainer: text, EndOffset: 5,
	}

	rec, err := EncodeSelection(doc, rng)
	if err != nil {
		t.Fatalf("EncodeSelection error: %v", err)
	}

	if rec.Kind != position.KindTokenSpan {
		t.Fatalf("Kind = %v, want KindTokenSpan", rec.Kind)
	}
	if len(rec.TokenIDs) != 1 || rec.TokenIDs[0] != "token-1" {
		t.Errorf("TokenIDs = %v, want [token-1]", rec.TokenIDs)
	}
	if rec.Text != "quick" {
		t.Errorf("Text = %q, want %q", rec.Text, "quick")
	}
}

func TestEncodeSelection_WholeTokenSelection(t *testing.T) {
	doc := mustParse(t, tokenizedSentence)

	start := tokenText(t, doc, "token-0")
	end := tokenText(t, doc, "token-3")
	rng := dom.Range{
		StartContainer: start, StartOffset: 0,
		EndContainer: end, EndOffset: len(end.Data),
	}

	rec, err := EncodeSelection(doc, rng)
	if err != nil {
		t.Fatalf("EncodeSelection error: %v", err)
	}

	want := []string{"token-0", "token-1", "token-2", "token-3"}
	if len(rec.TokenIDs) != len(want) {
		t.Fatalf("TokenIDs = %v, want %v", rec.TokenIDs, want)
	}
	for i, w := range want {
		if rec.TokenIDs[i] != w {
			t.Errorf("TokenIDs[%d] = %q, want %q", i, rec.TokenIDs[i], w)
		}
	}
	if rec.Text != "The quick brown fox" {
		t.Errorf("Text = %q, want %q", rec.Text, "The quick brown fox")
	}
}

func TestEncodeSelection_EmptySelection(t *testing.T) {
	doc := mustParse(t, tokenizedSentence)

	_, err := EncodeSelection(doc, dom.Range{})
	if !errors.Is(err, errors.ErrEmptySelection) {
		t.Errorf("error = %v, want EMPTY_SELECTION", err)
	}

	// Whitespace-only selections are rejected too.
	ws := mustParse(t, `<p>a <b> </b> b</p>`)
	texts := dom.TextNodes(ws.Container)
	rng := dom.Range{StartContainer: texts[1], StartOffset: 0, EndContainer: texts[1], EndOffset: 1}
	_, err = EncodeSelection(ws, rng)
	if !errors.Is(err, errors.ErrEmptySelection) {
		t.Errorf("error = %v, want EMPTY_SELECTION", err)
	}
}

func TestEncodeSelection_NoTokensFallsBackToStructural(t *testing.T) {
	doc := mustParse(t, `<div><p>first paragraph</p><p>second paragraph</p></div>`)
	texts := dom.TextNodes(doc.Container)

	rng := dom.Range{
		StartContainer: texts[0], StartOffset: 6,
		EndContainer: texts[1], EndOffset: 6,
	}

	rec, err := EncodeSelection(doc, rng)
	if err != nil {
		t.Fatalf("EncodeSelection error: %v", err)
	}

	if rec.Kind != position.KindStructural {
		t.Fatalf("Kind = %v, want KindStructural (never TokenSpan without tokens)", rec.Kind)
	}
	if rec.StartAnchor != "/div[1]/p[1]/text()[1]" {
		t.Errorf("StartAnchor = %q", rec.StartAnchor)
	}
	if rec.EndAnchor != "/div[1]/p[2]/text()[1]" {
		t.Errorf("EndAnchor = %q", rec.EndAnchor)
	}
	if rec.StartOffset != 6 || rec.EndOffset != 6 {
		t.Errorf("offsets = %d, %d; want 6, 6", rec.StartOffset, rec.EndOffset)
	}
	if rec.ContainerXPath != "/div[1]" {
		t.Errorf("ContainerXPath = %q, want /div[1]", rec.ContainerXPath)
	}
	// Extraction is plain text-node concatenation; no separator exists
	// between the two paragraphs' text runs.
	if rec.Text != "paragraphsecond" {
		t.Errorf("Text = %q, want %q", rec.Text, "paragraphsecond")
	}
}

func TestEncodeSelection_NeverMutates(t *testing.T) {
	doc := mustParse(t, tokenizedSentence)
	before, _ := doc.Serialize()

	rng := dom.Range{
		StartContainer: tokenText(t, doc, "token-1"), StartOffset: 1,
		EndContainer: tokenText(t, doc, "token-2"), EndOffset: 2,
	}
	if _, err := EncodeSelection(doc, rng); err != nil {
		t.Fatalf("EncodeSelection error: %v", err)
	}

	after, _ := doc.Serialize()
	if before != after {
		t.Error("EncodeSelection mutated the document")
	}
}

func TestEncodeSelection_NilDocument(t *testing.T) {
	_, err := EncodeSelection(nil, dom.Range{})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestFindText(t *testing.T) {
	doc := mustParse(t, `<p>the quick brown fox. the   quick fox.</p>`)

	rng, err := FindText(doc, "the quick", 1)
	if err != nil {
		t.Fatalf("FindText error: %v", err)
	}
	if got := rng.Text(doc.Root()); got != "the quick" {
		t.Errorf("occurrence 1 = %q, want %q", got, "the quick")
	}

	// Second occurrence matches across the collapsed whitespace run.
	rng, err = FindText(doc, "the quick", 2)
	if err != nil {
		t.Fatalf("FindText error: %v", err)
	}
	if got := rng.Text(doc.Root()); got != "the   quick" {
		t.Errorf("occurrence 2 = %q, want %q", got, "the   quick")
	}

	if _, err := FindText(doc, "the quick", 3); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("occurrence 3 error = %v, want NOT_FOUND", err)
	}
	if _, err := FindText(doc, "   ", 1); !errors.Is(err, errors.ErrEmptySelection) {
		t.Errorf("blank quote error = %v, want EMPTY_SELECTION", err)
	}
}

// Package position defines the serialized description of where a highlighted
// span lives in a document. Records are created once at selection time and
// are immutable afterwards; the wire form is persisted verbatim as an opaque
// string by the storage layer.
package position

// Kind discriminates the closed set of position encodings.
type Kind int

const (
	// KindTokenSpan addresses a span by stable token identifiers. Exact and
	// robust to re-rendering as long as token ids are stable and present.
	KindTokenSpan Kind = iota

	// KindStructural addresses a span by tag/sibling-index paths plus text
	// offsets. Robust to content reload only while the tree shape holds.
	KindStructural

	// KindLegacy is the weakest encoding: an optional path hint plus the
	// literal text, located by searching.
	KindLegacy
)

// String returns the kind name for logs and reports.
func (k Kind) String() string {
	switch k {
	case KindTokenSpan:
		return "token_span"
	case KindStructural:
		return "structural"
	case KindLegacy:
		return "legacy"
	}
	return "unknown"
}

// Record is the tagged union of position encodings. Only the fields for the
// active Kind are meaningful. Every record carries the literal matched text,
// used both as a restoration fallback and as a drift-detection signal.
type Record struct {
	Kind Kind

	// Text is the literal text of the (expanded) selection.
	Text string

	// TokenIDs holds the covered token identifiers in document order.
	// KindTokenSpan only.
	TokenIDs []string

	// StartAnchor/EndAnchor are structural paths ("/div[1]/p[2]") to the
	// boundary containers; offsets are byte offsets into the resolved text
	// run. ContainerXPath addresses the common ancestor. KindStructural only.
	StartAnchor    string
	StartOffset    int
	EndAnchor      string
	EndOffset      int
	ContainerXPath string

	// XPath is the optional container hint of a legacy record. Legacy
	// offsets, when present, reuse StartOffset/EndOffset.
	XPath string
}

// NewTokenSpan builds a token-identifier record.
func NewTokenSpan(tokenIDs []string, text string) *Record {
	return &Record{Kind: KindTokenSpan, TokenIDs: tokenIDs, Text: text}
}

// NewStructural builds a structural-anchor record.
func NewStructural(startAnchor string, startOffset int, endAnchor string, endOffset int, containerXPath, text string) *Record {
	return &Record{
		Kind:           KindStructural,
		StartAnchor:    startAnchor,
		StartOffset:    startOffset,
		EndAnchor:      endAnchor,
		EndOffset:      endOffset,
		ContainerXPath: containerXPath,
		Text:           text,
	}
}

// NewLegacy builds a legacy text-search record.
func NewLegacy(xpath, text string) *Record {
	return &Record{Kind: KindLegacy, XPath: xpath, Text: text}
}

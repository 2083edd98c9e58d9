package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// TextMap is the concatenated text of a subtree plus the bookkeeping needed
// to convert global text offsets back into node-local ranges.
type TextMap struct {
	text  string
	spans []textSpan
}

type textSpan struct {
	node  *html.Node
	start int // offset of node's first byte in the concatenated text
	end   int
}

// BuildTextMap concatenates all text under root in document order.
func BuildTextMap(root *html.Node) *TextMap {
	m := &TextMap{}
	var sb strings.Builder
	Walk(root, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			start := sb.Len()
			sb.WriteString(n.Data)
			m.spans = append(m.spans, textSpan{node: n, start: start, end: sb.Len()})
		}
		return true
	})
	m.text = sb.String()
	return m
}

// Text returns the concatenated text.
func (m *TextMap) Text() string {
	return m.text
}

// Range converts a half-open global byte range into a node-local Range.
func (m *TextMap) Range(start, end int) (Range, bool) {
	if start < 0 || end > len(m.text) || start >= end {
		return Range{}, false
	}

	var r Range
	for _, s := range m.spans {
		// Start boundary: the first span containing offset start. A boundary
		// exactly at a span's end belongs to the next span.
		if r.StartContainer == nil && start >= s.start && start < s.end {
			r.StartContainer = s.node
			r.StartOffset = start - s.start
		}
		// End boundary: the first span whose text reaches offset end.
		if end > s.start && end <= s.end {
			r.EndContainer = s.node
			r.EndOffset = end - s.start
			break
		}
	}
	if r.IsZero() {
		return Range{}, false
	}
	return r, true
}

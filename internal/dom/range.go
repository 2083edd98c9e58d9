package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Range is a half-open text selection over a document snapshot. Containers
// are text nodes; offsets are byte offsets into the node's decoded text.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// IsZero reports whether the range has no containers at all.
func (r Range) IsZero() bool {
	return r.StartContainer == nil || r.EndContainer == nil
}

// CommonAncestor returns the deepest node containing both boundaries.
func (r Range) CommonAncestor() *html.Node {
	if r.IsZero() {
		return nil
	}
	return CommonAncestor(r.StartContainer, r.EndContainer)
}

// Text extracts the selected text in document order. The document root must
// contain both boundaries; text nodes outside the range contribute nothing.
func (r Range) Text(root *html.Node) string {
	if r.IsZero() {
		return ""
	}
	if r.StartContainer == r.EndContainer {
		data := r.StartContainer.Data
		start, end := clampOffsets(data, r.StartOffset, r.EndOffset)
		return data[start:end]
	}

	var sb strings.Builder
	inRange := false
	Walk(root, func(n *html.Node) bool {
		if n.Type != html.TextNode {
			return true
		}
		switch n {
		case r.StartContainer:
			start, _ := clampOffsets(n.Data, r.StartOffset, len(n.Data))
			sb.WriteString(n.Data[start:])
			inRange = true
		case r.EndContainer:
			_, end := clampOffsets(n.Data, 0, r.EndOffset)
			sb.WriteString(n.Data[:end])
			return false
		default:
			if inRange {
				sb.WriteString(n.Data)
			}
		}
		return true
	})
	return sb.String()
}

// NodeRange returns a range covering all text content of n.
func NodeRange(n *html.Node) (Range, bool) {
	first, ok := FirstTextNode(n)
	if !ok {
		return Range{}, false
	}
	last, _ := LastTextNode(n)
	return Range{
		StartContainer: first,
		StartOffset:    0,
		EndContainer:   last,
		EndOffset:      len(last.Data),
	}, true
}

// SpanRange returns a range from the start of first's text to the end of
// last's text, where first and last are (token) elements.
func SpanRange(first, last *html.Node) (Range, bool) {
	startText, ok := FirstTextNode(first)
	if !ok {
		return Range{}, false
	}
	endText, ok := LastTextNode(last)
	if !ok {
		return Range{}, false
	}
	return Range{
		StartContainer: startText,
		StartOffset:    0,
		EndContainer:   endText,
		EndOffset:      len(endText.Data),
	}, true
}

func clampOffsets(data string, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(data) {
		end = len(data)
	}
	if start > end {
		start = end
	}
	return start, end
}

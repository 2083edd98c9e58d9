package dom

import "golang.org/x/net/html"

// IsMark reports whether n is a rendered highlight wrapper. A mark is any
// element bearing the highlight id attribute; tag name is theme-controlled
// and not part of the contract.
func IsMark(n *html.Node) bool {
	_, ok := GetAttr(n, AttrHighlightID)
	return ok
}

// MarkID returns the highlight id a mark carries.
func MarkID(n *html.Node) (string, bool) {
	return GetAttr(n, AttrHighlightID)
}

// InsideMark reports whether n sits inside (or is) a rendered mark.
func InsideMark(n *html.Node) bool {
	_, ok := Ancestor(n, IsMark)
	return ok
}

// MarksIn returns every rendered mark in the document in document order.
func MarksIn(d *Document) []*html.Node {
	var marks []*html.Node
	Walk(d.Container, func(n *html.Node) bool {
		if IsMark(n) {
			marks = append(marks, n)
		}
		return true
	})
	return marks
}

// MarkByID finds the rendered mark for a specific highlight.
func MarkByID(d *Document, highlightID string) (*html.Node, bool) {
	var found *html.Node
	Walk(d.Container, func(n *html.Node) bool {
		if id, ok := MarkID(n); ok && id == highlightID {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

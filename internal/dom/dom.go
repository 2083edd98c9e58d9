// Package dom provides the document tree snapshot the annotation core works
// against: parsing and serializing article content, document-order traversal,
// token indexing, structural paths, and XPath evaluation.
//
// A Document is a read-only snapshot from the caller's point of view. The one
// sanctioned mutation is mark insertion performed by the renderer on a tree it
// parsed itself; encode and restore never mutate.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attribute names shared by the encoder, restorer, and renderer. These are an
// external contract: stored documents and previously rendered markup use them
// verbatim.
const (
	AttrTokenID     = "data-token-id"
	AttrHighlightID = "data-highlight-id"
	AttrHasNotes    = "data-has-notes"
)

// Document wraps a parsed HTML fragment. Container is a synthetic body
// element whose children are the article content.
type Document struct {
	Container *html.Node
}

// Parse parses article content as an HTML fragment in body context.
// The returned Document owns a fresh tree; parsing the same content twice
// yields independent snapshots.
func Parse(content string) (*Document, error) {
	container := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), container)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return &Document{Container: container}, nil
}

// Serialize renders the document's content back to an HTML string.
func (d *Document) Serialize() (string, error) {
	var sb strings.Builder
	for c := d.Container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// Root returns the container node all paths and queries are relative to.
func (d *Document) Root() *html.Node {
	return d.Container
}

// Walk visits n and its subtree in document order. Returning false from fn
// stops the walk.
func Walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// TextNodes returns all text nodes under n in document order.
func TextNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FirstTextNode returns the first text node under n in document order.
func FirstTextNode(n *html.Node) (*html.Node, bool) {
	var found *html.Node
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			found = c
			return false
		}
		return true
	})
	return found, found != nil
}

// LastTextNode returns the last text node under n in document order.
func LastTextNode(n *html.Node) (*html.Node, bool) {
	texts := TextNodes(n)
	if len(texts) == 0 {
		return nil, false
	}
	return texts[len(texts)-1], true
}

// InnerText concatenates all text under n in document order.
func InnerText(n *html.Node) string {
	var sb strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// GetAttr returns the value of the named attribute on n.
func GetAttr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Ancestor walks from n upward (inclusive) and returns the first node
// satisfying pred.
func Ancestor(n *html.Node, pred func(*html.Node) bool) (*html.Node, bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		if pred(cur) {
			return cur, true
		}
	}
	return nil, false
}

// CommonAncestor returns the deepest node containing both a and b.
func CommonAncestor(a, b *html.Node) *html.Node {
	seen := map[*html.Node]bool{}
	for cur := a; cur != nil; cur = cur.Parent {
		seen[cur] = true
	}
	for cur := b; cur != nil; cur = cur.Parent {
		if seen[cur] {
			return cur
		}
	}
	return nil
}

// Contains reports whether n is root or a descendant of root.
func Contains(root, n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}

// NormalizeSpace collapses whitespace runs to single spaces and trims. Used
// for tolerant text comparison between stored and live document text.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

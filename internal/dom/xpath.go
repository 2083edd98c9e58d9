package dom

import (
	"fmt"

	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// QueryXPath evaluates an XPath expression against the document and returns
// matching nodes in document order. Legacy position records may carry
// arbitrary expressions, not just the tag-index paths this package generates,
// so evaluation goes through a real XPath engine.
func QueryXPath(d *Document, expr string) ([]*html.Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}

	var out []*html.Node
	iter := compiled.Select(&nodeNavigator{root: d.Container, curr: d.Container, attr: -1})
	for iter.MoveNext() {
		nav, ok := iter.Current().(*nodeNavigator)
		if !ok || nav.attr >= 0 {
			continue
		}
		out = append(out, nav.curr)
	}
	return out, nil
}

// QueryXPathOne returns the first match of expr, if any.
func QueryXPathOne(d *Document, expr string) (*html.Node, bool, error) {
	nodes, err := QueryXPath(d, expr)
	if err != nil {
		return nil, false, err
	}
	if len(nodes) == 0 {
		return nil, false, nil
	}
	return nodes[0], true, nil
}

// nodeNavigator adapts an html.Node tree to the xpath.NodeNavigator
// interface. The document container acts as the XPath root.
type nodeNavigator struct {
	root *html.Node
	curr *html.Node
	attr int // current attribute index, -1 when positioned on the node itself
}

func (n *nodeNavigator) NodeType() xpath.NodeType {
	if n.attr >= 0 {
		return xpath.AttributeNode
	}
	if n.curr == n.root {
		return xpath.RootNode
	}
	switch n.curr.Type {
	case html.ElementNode:
		return xpath.ElementNode
	case html.TextNode:
		return xpath.TextNode
	case html.CommentNode:
		return xpath.CommentNode
	case html.DocumentNode:
		return xpath.RootNode
	}
	return xpath.TextNode
}

func (n *nodeNavigator) LocalName() string {
	if n.attr >= 0 {
		return n.curr.Attr[n.attr].Key
	}
	if n.curr.Type == html.ElementNode {
		return n.curr.Data
	}
	return ""
}

func (n *nodeNavigator) Prefix() string { return "" }

func (n *nodeNavigator) Value() string {
	if n.attr >= 0 {
		return n.curr.Attr[n.attr].Val
	}
	switch n.curr.Type {
	case html.TextNode, html.CommentNode:
		return n.curr.Data
	default:
		return InnerText(n.curr)
	}
}

func (n *nodeNavigator) Copy() xpath.NodeNavigator {
	clone := *n
	return &clone
}

func (n *nodeNavigator) MoveToRoot() {
	n.curr = n.root
	n.attr = -1
}

func (n *nodeNavigator) MoveToParent() bool {
	if n.attr >= 0 {
		n.attr = -1
		return true
	}
	if n.curr == n.root || n.curr.Parent == nil {
		return false
	}
	n.curr = n.curr.Parent
	return true
}

func (n *nodeNavigator) MoveToNextAttribute() bool {
	if n.curr.Type != html.ElementNode {
		return false
	}
	if n.attr+1 >= len(n.curr.Attr) {
		return false
	}
	n.attr++
	return true
}

func (n *nodeNavigator) MoveToChild() bool {
	if n.attr >= 0 {
		return false
	}
	if n.curr.FirstChild == nil {
		return false
	}
	n.curr = n.curr.FirstChild
	return true
}

func (n *nodeNavigator) MoveToFirst() bool {
	if n.attr >= 0 || n.curr.Parent == nil {
		return false
	}
	n.curr = n.curr.Parent.FirstChild
	return true
}

func (n *nodeNavigator) MoveToNext() bool {
	if n.attr >= 0 || n.curr.NextSibling == nil {
		return false
	}
	n.curr = n.curr.NextSibling
	return true
}

func (n *nodeNavigator) MoveToPrevious() bool {
	if n.attr >= 0 || n.curr.PrevSibling == nil {
		return false
	}
	n.curr = n.curr.PrevSibling
	return true
}

func (n *nodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*nodeNavigator)
	if !ok || o.root != n.root {
		return false
	}
	n.curr = o.curr
	n.attr = o.attr
	return true
}

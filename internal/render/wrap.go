package render

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hollisb/marginalia/internal/dom"
	"github.com/hollisb/marginalia/internal/highlight"
)

// markElement builds the wrapper element for a highlight. The attribute pair
// data-highlight-id / data-has-notes is the rendered markup contract.
func markElement(theme Theme, h *highlight.Highlight) *html.Node {
	tag := theme.tag()
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	dom.SetAttr(el, dom.AttrHighlightID, h.ID)
	dom.SetAttr(el, dom.AttrHasNotes, strconv.FormatBool(h.HasNotes()))
	if cls := theme.markClass(h.Color, h.HasNotes()); cls != "" {
		dom.SetAttr(el, "class", cls)
	}
	return el
}

// wrapSpan wraps everything from the start of first to the end of last in a
// single mark element, by extracting the covered nodes and reinserting them
// inside the mark. Ancestor chains are split at the boundaries first so
// nested inline markup inside the span survives intact.
func wrapSpan(first, last, mark *html.Node) error {
	anc := dom.CommonAncestor(first, last)
	if anc == nil {
		return fmt.Errorf("span boundaries share no ancestor")
	}
	// A single-element span is its own common ancestor; wrap it whole.
	if anc == first || anc == last {
		anc = anc.Parent
		if anc == nil {
			return fmt.Errorf("span has no parent to wrap under")
		}
	}

	startTop := splitBefore(anc, first)
	endTop := splitAfter(anc, last)

	anc.InsertBefore(mark, startTop)
	for n := startTop; n != nil; {
		next := n.NextSibling
		anc.RemoveChild(n)
		mark.AppendChild(n)
		if n == endTop {
			return nil
		}
		n = next
	}
	return fmt.Errorf("span end is not a following sibling of span start")
}

// splitBefore splits ancestor chains so that target becomes the first leaf
// of the returned node, a direct child of anc.
func splitBefore(anc, target *html.Node) *html.Node {
	cur := target
	for cur.Parent != anc {
		p := cur.Parent
		if cur.PrevSibling == nil {
			cur = p
			continue
		}
		clone := shallowClone(p)
		for n := cur; n != nil; {
			next := n.NextSibling
			p.RemoveChild(n)
			clone.AppendChild(n)
			n = next
		}
		p.Parent.InsertBefore(clone, p.NextSibling)
		cur = clone
	}
	return cur
}

// splitAfter splits ancestor chains so that target becomes the last leaf of
// the returned node, a direct child of anc.
func splitAfter(anc, target *html.Node) *html.Node {
	cur := target
	for cur.Parent != anc {
		p := cur.Parent
		if cur.NextSibling != nil {
			clone := shallowClone(p)
			for n := cur.NextSibling; n != nil; {
				next := n.NextSibling
				p.RemoveChild(n)
				clone.AppendChild(n)
				n = next
			}
			p.Parent.InsertBefore(clone, p.NextSibling)
		}
		cur = p
	}
	return cur
}

// shallowClone copies an element without its children.
func shallowClone(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		Data:      n.Data,
		DataAtom:  n.DataAtom,
		Namespace: n.Namespace,
	}
	clone.Attr = append([]html.Attribute(nil), n.Attr...)
	return clone
}

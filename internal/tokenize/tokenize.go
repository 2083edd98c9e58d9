// Package tokenize turns article HTML into token-addressable HTML by
// wrapping each word in a span carrying a stable token identifier. Token ids
// are assigned in document order, so the id sequence is a pure function of
// the input content.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hollisb/marginalia/internal/dom"
)

// Options controls token id assignment.
type Options struct {
	// Prefix is the token id prefix (default "token")
	Prefix string

	// StartIndex is the first index to assign (default 0)
	StartIndex int
}

func (o Options) prefix() string {
	if o.Prefix == "" {
		return dom.DefaultTokenPrefix
	}
	return o.Prefix
}

// Tokenize wraps every word of the eligible text in content with a
// <span data-token-id="..."> element. Text inside script, style and pre
// elements is left alone, as is text already inside a token span, which
// makes the pass idempotent.
func Tokenize(content string, opts Options) (string, error) {
	doc, err := dom.Parse(content)
	if err != nil {
		return "", err
	}

	next := nextIndex(doc, opts)

	// Snapshot first: wrapping replaces text nodes while we iterate.
	var eligible []*html.Node
	for _, n := range dom.TextNodes(doc.Container) {
		if isEligible(n) {
			eligible = append(eligible, n)
		}
	}

	for _, n := range eligible {
		next = wrapWords(n, opts.prefix(), next)
	}

	return doc.Serialize()
}

// nextIndex returns the first free token index: opts.StartIndex, or one past
// the highest existing index with the same prefix so re-tokenizing partially
// tokenized content never reuses an id.
func nextIndex(doc *dom.Document, opts Options) int {
	next := opts.StartIndex
	prefix := opts.prefix() + "-"
	dom.Walk(doc.Container, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		id, ok := dom.GetAttr(n, dom.AttrTokenID)
		if !ok || !strings.HasPrefix(id, prefix) {
			return true
		}
		if order, ok := dom.TokenOrder(id); ok && order >= next {
			next = order + 1
		}
		return true
	})
	return next
}

// isEligible reports whether a text node's words should be wrapped.
func isEligible(n *html.Node) bool {
	if strings.TrimSpace(n.Data) == "" {
		return false
	}
	if _, ok := dom.TokenElement(n); ok {
		return false
	}
	_, skipped := dom.Ancestor(n, func(a *html.Node) bool {
		if a.Type != html.ElementNode {
			return false
		}
		switch a.DataAtom {
		case atom.Script, atom.Style, atom.Pre:
			return true
		}
		return false
	})
	return !skipped
}

// wrapWords replaces a text node with alternating whitespace text nodes and
// token spans, one span per word. Whitespace between words is preserved
// byte-for-byte. Returns the next free token index.
func wrapWords(node *html.Node, prefix string, next int) int {
	parent := node.Parent
	data := node.Data

	i := 0
	for i < len(data) {
		r, _ := utf8.DecodeRuneInString(data[i:])
		inWord := !unicode.IsSpace(r)
		j := i
		for j < len(data) {
			r, size := utf8.DecodeRuneInString(data[j:])
			if unicode.IsSpace(r) == inWord {
				break
			}
			j += size
		}
		seg := data[i:j]
		if inWord {
			span := &html.Node{
				Type:     html.ElementNode,
				Data:     "span",
				DataAtom: atom.Span,
			}
			dom.SetAttr(span, dom.AttrTokenID, dom.FormatTokenID(prefix, next))
			next++
			span.AppendChild(&html.Node{Type: html.TextNode, Data: seg})
			parent.InsertBefore(span, node)
		} else {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: seg}, node)
		}
		i = j
	}
	parent.RemoveChild(node)
	return next
}

package dom

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// DefaultTokenPrefix is the identifier prefix assigned at tokenize time.
// Identifiers have the form "<prefix>-<decimal index>" with the index
// assigned in strict document order.
const DefaultTokenPrefix = "token"

// TokenIndex maps token identifiers to the live nodes currently bearing them.
// It is built once per render pass and must not outlive the snapshot it was
// built from; callers re-resolve by id after any mutation.
type TokenIndex struct {
	nodes map[string]*html.Node
}

// IndexTokens builds a TokenIndex over the document. Read-only traversal.
func IndexTokens(d *Document) *TokenIndex {
	idx := &TokenIndex{nodes: make(map[string]*html.Node)}
	Walk(d.Container, func(n *html.Node) bool {
		if id, ok := GetAttr(n, AttrTokenID); ok {
			idx.nodes[id] = n
		}
		return true
	})
	return idx
}

// Lookup resolves a token identifier to its live node.
func (t *TokenIndex) Lookup(id string) (*html.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Len returns the number of indexed tokens.
func (t *TokenIndex) Len() int {
	return len(t.nodes)
}

// TokenOrder returns the document-order position encoded in a token
// identifier's numeric suffix.
func TokenOrder(id string) (int, bool) {
	i := strings.LastIndexByte(id, '-')
	if i < 0 || i == len(id)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FormatTokenID builds a token identifier from prefix and index.
func FormatTokenID(prefix string, index int) string {
	return prefix + "-" + strconv.Itoa(index)
}

// CompareTokens orders two token identifiers by numeric suffix. Identifiers
// without a parsable suffix sort after valid ones.
func CompareTokens(a, b string) int {
	na, okA := TokenOrder(a)
	nb, okB := TokenOrder(b)
	switch {
	case okA && okB:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

// SortTokens sorts token identifiers in document order, in place.
func SortTokens(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return CompareTokens(ids[i], ids[j]) < 0
	})
}

// HasTokens reports whether any node in n's subtree carries a token
// identifier. False signals callers to use the structural addressing regime.
func HasTokens(n *html.Node) bool {
	found := false
	Walk(n, func(c *html.Node) bool {
		if _, ok := GetAttr(c, AttrTokenID); ok {
			found = true
			return false
		}
		return true
	})
	return found
}

// TokenElement walks from n upward to the nearest enclosing element bearing a
// token identifier.
func TokenElement(n *html.Node) (*html.Node, bool) {
	return Ancestor(n, func(c *html.Node) bool {
		_, ok := GetAttr(c, AttrTokenID)
		return ok
	})
}

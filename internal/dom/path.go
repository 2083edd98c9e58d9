package dom

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Step is one level of a structural path: a tag name plus a 1-based index
// among same-tagged element siblings.
type Step struct {
	Tag   string
	Index int
}

// stepPattern matches one path component: "p[2]" or a bare "p" (index 1).
var stepPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)(?:\[(\d+)\])?$`)

// PathTo computes the structural path from root (exclusive) down to the
// nearest enclosing element of n. A text node is addressed by its parent
// element's path; callers carry the text-run index separately.
func PathTo(root, n *html.Node) ([]Step, bool) {
	el := n
	if el != nil && el.Type != html.ElementNode {
		el = el.Parent
	}
	if el == nil || !Contains(root, el) {
		return nil, false
	}

	var steps []Step
	for cur := el; cur != root; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			// Anonymous levels (comments cannot have element children, so
			// this only guards malformed trees).
			return nil, false
		}
		steps = append(steps, Step{Tag: cur.Data, Index: sameTagIndex(cur)})
	}

	// Built leaf-first; reverse to root-first.
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps, true
}

// ResolveSteps walks a structural path from root back to an element.
func ResolveSteps(root *html.Node, steps []Step) (*html.Node, bool) {
	cur := root
	for _, step := range steps {
		next, ok := nthSameTagChild(cur, step.Tag, step.Index)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// FormatPath renders steps in the wire form "/div[1]/p[2]".
func FormatPath(steps []Step) string {
	var sb strings.Builder
	for _, s := range steps {
		fmt.Fprintf(&sb, "/%s[%d]", s.Tag, s.Index)
	}
	return sb.String()
}

// ParsePath parses the wire form back into steps. A bare component without a
// bracketed index means index 1. Empty input yields an empty path (the root).
func ParsePath(s string) ([]Step, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "/" {
		return nil, nil
	}
	s = strings.TrimPrefix(s, "/")

	parts := strings.Split(s, "/")
	steps := make([]Step, 0, len(parts))
	for _, part := range parts {
		m := stepPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("invalid path component %q", part)
		}
		index := 1
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid path index %q", m[2])
			}
			index = n
		}
		steps = append(steps, Step{Tag: strings.ToLower(m[1]), Index: index})
	}
	return steps, nil
}

// TextRunIndex returns n's position among the text nodes under el in document
// order, or -1 if n is not a text node under el.
func TextRunIndex(el, n *html.Node) int {
	idx := -1
	i := 0
	Walk(el, func(c *html.Node) bool {
		if c.Type != html.TextNode {
			return true
		}
		if c == n {
			idx = i
			return false
		}
		i++
		return true
	})
	return idx
}

// NthTextRun returns the i-th text node under el in document order.
func NthTextRun(el *html.Node, i int) (*html.Node, bool) {
	if i < 0 {
		return nil, false
	}
	var found *html.Node
	j := 0
	Walk(el, func(c *html.Node) bool {
		if c.Type != html.TextNode {
			return true
		}
		if j == i {
			found = c
			return false
		}
		j++
		return true
	})
	return found, found != nil
}

// sameTagIndex computes the 1-based index of el among its same-tagged
// element siblings.
func sameTagIndex(el *html.Node) int {
	idx := 1
	for sib := el.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode && sib.Data == el.Data {
			idx++
		}
	}
	return idx
}

// nthSameTagChild finds the idx-th (1-based) element child of parent with the
// given tag.
func nthSameTagChild(parent *html.Node, tag string, idx int) (*html.Node, bool) {
	count := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.EqualFold(c.Data, tag) {
			count++
			if count == idx {
				return c, true
			}
		}
	}
	return nil, false
}

package tokenize

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// FromMarkdown converts markdown to HTML and tokenizes the result.
func FromMarkdown(md string, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return Tokenize(buf.String(), opts)
}

package dom

import (
	"regexp"
	"strings"
)

// wsRun matches literal whitespace runs inside an already-quoted pattern.
var wsRun = regexp.MustCompile(`\s+`)

// LoosePattern compiles a case-insensitive pattern for a literal text that
// tolerates reflowed spacing: all regex metacharacters are escaped, then
// every literal whitespace run becomes "one or more whitespace".
func LoosePattern(text string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(strings.TrimSpace(text))
	loose := wsRun.ReplaceAllString(quoted, `\s+`)
	return regexp.Compile(`(?i)` + loose)
}

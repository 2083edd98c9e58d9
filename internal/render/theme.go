package render

import "strings"

// Theme controls how marks look, never where they go. Placement logic is
// independent of styling; the theme only affects the emitted tag and class
// attributes.
type Theme struct {
	// MarkTag is the element name used to wrap highlighted spans
	MarkTag string

	// DefaultColor is used when a highlight has no color of its own
	DefaultColor string

	// ColorClasses maps color names to CSS classes
	ColorClasses map[string]string

	// NoteClass is added when a highlight has notes (border affordance)
	NoteClass string
}

// DefaultTheme returns the stock theme.
func DefaultTheme() Theme {
	return Theme{
		MarkTag:      "mark",
		DefaultColor: "yellow",
		ColorClasses: map[string]string{
			"yellow": "hl-yellow",
			"blue":   "hl-blue",
			"green":  "hl-green",
			"pink":   "hl-pink",
		},
		NoteClass: "hl-noted",
	}
}

// tag returns the mark element name, defaulting to "mark".
func (t Theme) tag() string {
	if t.MarkTag == "" {
		return "mark"
	}
	return t.MarkTag
}

// markClass resolves the class attribute for a highlight's mark.
func (t Theme) markClass(color string, hasNotes bool) string {
	if color == "" {
		color = t.DefaultColor
	}
	var classes []string
	if cls, ok := t.ColorClasses[color]; ok && cls != "" {
		classes = append(classes, cls)
	}
	if hasNotes && t.NoteClass != "" {
		classes = append(classes, t.NoteClass)
	}
	return strings.Join(classes, " ")
}

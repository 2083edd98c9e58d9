// Package highlight defines the domain types the annotation engine operates
// on. Storage owns these records; the rendering and anchoring core treats
// them as read-only input except for producing the position string at
// creation time.
package highlight

// Article is a stored document a reader annotates.
type Article struct {
	// ID is a ULID that uniquely identifies this article
	ID string

	// Title is the human-readable title
	Title string

	// TitleNorm is the normalized title used for uniqueness checks
	TitleNorm string

	// Content is the article body. For HTML articles this is the
	// token-addressable form produced at store time.
	Content string

	// ContentHTML reports whether Content is HTML (false: plain text)
	ContentHTML bool

	// CreatedAt is the Unix timestamp when the article was stored
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the article was last updated
	UpdatedAt int64
}

// Highlight is one annotated span of an article. The position string is an
// opaque versioned record created once at selection time; a highlight's text
// never changes after creation (edits create new highlights).
type Highlight struct {
	// ID is a ULID that uniquely identifies this highlight
	ID string

	// ArticleID references the owning article
	ArticleID string

	// Text is the literal highlighted text as selected (after any token
	// boundary expansion)
	Text string

	// Position is the serialized position record, persisted verbatim
	Position string

	// Color is the display color name (theme resolves it to styling)
	Color string

	// Notes attached to this highlight
	Notes []Note

	// CreatedAt is the Unix timestamp when the highlight was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the highlight was last updated
	UpdatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// HasNotes reports whether any note is attached, which renders as a border
// affordance on the mark.
func (h *Highlight) HasNotes() bool {
	return len(h.Notes) > 0
}

// Note is attached to a highlight or directly to an article.
type Note struct {
	// ID is a ULID that uniquely identifies this note
	ID string

	// HighlightID references the owning highlight (nullable)
	HighlightID *string

	// ArticleID references the owning article (nullable; set for
	// article-level notes)
	ArticleID *string

	// Content is the note text
	Content string

	// CreatedAt is the Unix timestamp when the note was created
	CreatedAt int64
}

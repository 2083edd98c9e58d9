package highlight

// ArticleSummary is the list-view projection of an article: metadata only,
// never the content body.
type ArticleSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ContentHTML bool   `json:"content_html"`
	Chars       int    `json:"chars"`
	Highlights  int    `json:"highlights"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// Summarize builds the list-view projection of an article.
func Summarize(a *Article, highlights int) ArticleSummary {
	return ArticleSummary{
		ID:          a.ID,
		Title:       a.Title,
		ContentHTML: a.ContentHTML,
		Chars:       CountChars(a.Content),
		Highlights:  highlights,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

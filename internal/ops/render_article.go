package ops

import (
	"database/sql"

	"github.com/hollisb/marginalia/internal/config"
	"github.com/hollisb/marginalia/internal/highlight"
	"github.com/hollisb/marginalia/internal/render"
	"github.com/hollisb/marginalia/internal/store"
)

// RenderArticleInput contains parameters for the RenderArticle operation.
type RenderArticleInput struct {
	ArticleID string
}

// RenderArticleOutput contains the result of the RenderArticle operation.
type RenderArticleOutput struct {
	Title       string         `json:"title"`
	Content     string         `json:"content"` // annotated content
	ContentHTML bool           `json:"content_html"`
	Report      *render.Report `json:"report"`
}

// RenderArticle produces the article's content with all active highlights
// applied. Highlights that cannot be placed are reported, never fatal.
func RenderArticle(database *sql.DB, cfg *config.Config, input RenderArticleInput) (*RenderArticleOutput, error) {
	a, err := store.GetArticleByID(database, input.ArticleID)
	if err != nil {
		return nil, err
	}

	hs, err := store.ListHighlightsByArticle(database, a.ID)
	if err != nil {
		return nil, err
	}

	flat := make([]highlight.Highlight, len(hs))
	for i, h := range hs {
		flat[i] = *h
	}

	content, report, err := render.Render(a.Content, a.ContentHTML, flat, themeFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	return &RenderArticleOutput{
		Title:       a.Title,
		Content:     content,
		ContentHTML: a.ContentHTML,
		Report:      report,
	}, nil
}

// themeFromConfig overlays configured styling on the stock theme.
func themeFromConfig(cfg *config.Config) render.Theme {
	theme := render.DefaultTheme()
	if cfg == nil {
		return theme
	}
	if cfg.MarkTag != "" {
		theme.MarkTag = cfg.MarkTag
	}
	if cfg.DefaultColor != "" {
		theme.DefaultColor = cfg.DefaultColor
	}
	return theme
}

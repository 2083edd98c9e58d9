package web

import (
	"database/sql"
	"html/template"
	"net/http"
	"strconv"

	"github.com/hollisb/marginalia/internal/config"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/ops"
)

// Handlers contains HTTP route handlers for the reading UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleIndex handles GET /articles — list stored articles.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	input := ops.ListArticlesInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	}

	result, err := ops.ListArticles(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "index", IndexPageData{
		PageData: PageData{
			Title:   "Articles",
			Version: h.renderer.version,
			Nav:     "articles",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
	})
}

// HandleArticle handles GET /articles/{id} — view one article with its
// highlights applied and its notes in the margin.
func (h *Handlers) HandleArticle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("article ID is required"))
		return
	}

	rendered, err := ops.RenderArticle(h.db, h.cfg, ops.RenderArticleInput{ArticleID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	highlights, err := ops.ListHighlights(h.db, ops.ListHighlightsInput{ArticleID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	notes, err := ops.ListNotes(h.db, ops.ListNotesInput{ArticleID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "article", ArticlePageData{
		PageData: PageData{
			Title:   rendered.Title,
			Version: h.renderer.version,
			Nav:     "articles",
		},
		ArticleID:    id,
		ArticleTitle: rendered.Title,
		Annotated:    annotatedHTML(rendered),
		IsHTML:       rendered.ContentHTML,
		Highlights:   highlights.Items,
		Notes:        notes.Items,
		Skipped:      rendered.Report.Skipped(),
	})
}

// annotatedHTML prepares the annotated content for template injection.
// HTML articles are emitted as-is; plain text articles carry only the mark
// tags the renderer inserted, so they are wrapped in a pre block.
func annotatedHTML(rendered *ops.RenderArticleOutput) template.HTML {
	if rendered.ContentHTML {
		return template.HTML(rendered.Content)
	}
	return template.HTML(`<pre class="plain-article">` + rendered.Content + `</pre>`)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

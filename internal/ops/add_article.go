package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hollisb/marginalia/internal/config"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/highlight"
	"github.com/hollisb/marginalia/internal/store"
	"github.com/hollisb/marginalia/internal/tokenize"
)

// ArticleFormat identifies the input content format.
type ArticleFormat string

const (
	FormatMarkdown ArticleFormat = "markdown" // converted to HTML, then tokenized
	FormatHTML     ArticleFormat = "html"     // tokenized as-is
	FormatText     ArticleFormat = "text"     // stored verbatim, rendered via text search
)

// AddArticleInput contains parameters for the AddArticle operation.
type AddArticleInput struct {
	Title   string        // required, unique after normalization
	Content string        // required
	Format  ArticleFormat // default: markdown
}

// AddArticleOutput contains the result of the AddArticle operation.
type AddArticleOutput struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Chars  int    `json:"chars"`
	Tokens int    `json:"tokens"`
}

// AddArticle stores a new article. HTML and markdown content is made
// token-addressable at store time so that highlights created against it get
// the strongest position encoding.
func AddArticle(database *sql.DB, cfg *config.Config, input AddArticleInput) (*AddArticleOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if input.Content == "" {
		return nil, errors.NewInvalidRequest("content is required")
	}
	if input.Format == "" {
		input.Format = FormatMarkdown
	}

	chars := highlight.CountChars(input.Content)
	if cfg.ArticleMaxChars > 0 && chars > cfg.ArticleMaxChars {
		return nil, errors.NewArticleTooLarge(cfg.ArticleMaxChars, chars)
	}

	var (
		content     string
		contentHTML bool
		err         error
	)
	switch input.Format {
	case FormatMarkdown:
		content, err = tokenize.FromMarkdown(input.Content, tokenize.Options{})
		contentHTML = true
	case FormatHTML:
		content, err = tokenize.Tokenize(input.Content, tokenize.Options{})
		contentHTML = true
	case FormatText:
		content = input.Content
	default:
		return nil, errors.NewInvalidRequest("format must be one of: markdown, html, text")
	}
	if err != nil {
		return nil, errors.NewInvalidRequest("content could not be parsed")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	a := &highlight.Article{
		ID:          id,
		Title:       title,
		TitleNorm:   highlight.NormalizeTitle(title),
		Content:     content,
		ContentHTML: contentHTML,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := store.InsertArticle(database, a); err != nil {
		if err == store.ErrUniqueConstraint {
			return nil, errors.NewNameAlreadyExists(title)
		}
		return nil, err
	}

	return &AddArticleOutput{
		ID:     id,
		Title:  title,
		Chars:  highlight.CountChars(content),
		Tokens: strings.Count(content, "data-token-id"),
	}, nil
}

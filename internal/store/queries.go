package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/highlight"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.Error{
	Code:    errors.ErrConflict,
	Status:  409,
	Message: "unique constraint violation",
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// InsertArticle stores a new article.
func InsertArticle(db *sql.DB, a *highlight.Article) error {
	query := `
		INSERT INTO articles (id, title, title_norm, content, content_html, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, a.ID, a.Title, a.TitleNorm, a.Content, a.ContentHTML, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// GetArticleByID retrieves an article by its ULID.
func GetArticleByID(db *sql.DB, id string) (*highlight.Article, error) {
	query := `
		SELECT id, title, title_norm, content, content_html, created_at, updated_at
		FROM articles
		WHERE id = ?
	`

	a, err := scanArticle(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("article", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return a, nil
}

// GetArticleByTitle retrieves an article by its normalized title.
func GetArticleByTitle(db *sql.DB, titleNorm string) (*highlight.Article, error) {
	query := `
		SELECT id, title, title_norm, content, content_html, created_at, updated_at
		FROM articles
		WHERE title_norm = ?
	`

	a, err := scanArticle(db.QueryRow(query, titleNorm))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("article", titleNorm)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return a, nil
}

// ListArticles returns articles ordered by most recently updated.
func ListArticles(db *sql.DB, limit, offset int) ([]*highlight.Article, error) {
	query := `
		SELECT id, title, title_norm, content, content_html, created_at, updated_at
		FROM articles
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []*highlight.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return out, nil
}

// CountArticles returns the total number of stored articles.
func CountArticles(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// TouchArticle bumps an article's updated_at timestamp.
func TouchArticle(db *sql.DB, id string, now int64) error {
	_, err := db.Exec("UPDATE articles SET updated_at = ? WHERE id = ?", now, id)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// InsertHighlight stores a new highlight.
func InsertHighlight(db *sql.DB, h *highlight.Highlight) error {
	color := toNullString(h.Color)

	query := `
		INSERT INTO highlights (id, article_id, text, position, color, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err := db.Exec(query, h.ID, h.ArticleID, h.Text, h.Position, color, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// GetHighlightByID retrieves a highlight by its ULID.
// If includeDeleted is false, soft-deleted highlights are excluded.
func GetHighlightByID(db *sql.DB, id string, includeDeleted bool) (*highlight.Highlight, error) {
	query := `
		SELECT id, article_id, text, position, color, created_at, updated_at, deleted_at
		FROM highlights
		WHERE id = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	h, err := scanHighlight(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("highlight", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return h, nil
}

// ListHighlightsByArticle returns an article's active highlights in creation
// order, with their notes attached.
func ListHighlightsByArticle(db *sql.DB, articleID string) ([]*highlight.Highlight, error) {
	query := `
		SELECT id, article_id, text, position, color, created_at, updated_at, deleted_at
		FROM highlights
		WHERE article_id = ? AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC
	`

	rows, err := db.Query(query, articleID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []*highlight.Highlight
	for rows.Next() {
		h, err := scanHighlight(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := attachNotes(db, out); err != nil {
		return nil, err
	}

	return out, nil
}

// CountHighlightsByArticle returns the number of active highlights on an article.
func CountHighlightsByArticle(db *sql.DB, articleID string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM highlights WHERE article_id = ? AND deleted_at IS NULL"
	if err := db.QueryRow(query, articleID).Scan(&count); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// UpdateHighlightColor changes a highlight's color. Everything else about a
// stored highlight is immutable.
func UpdateHighlightColor(db *sql.DB, id, color string) error {
	now := time.Now().Unix()

	query := `
		UPDATE highlights
		SET color = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, toNullString(color), now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("highlight", id)
	}

	return nil
}

// SoftDeleteHighlight marks a highlight as deleted by setting deleted_at.
func SoftDeleteHighlight(db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `
		UPDATE highlights
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("highlight", id)
	}

	return nil
}

// InsertNote stores a new note.
func InsertNote(db *sql.DB, n *highlight.Note) error {
	query := `
		INSERT INTO notes (id, highlight_id, article_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, n.ID, toNullStringPtr(n.HighlightID), toNullStringPtr(n.ArticleID), n.Content, n.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// ListNotesByHighlight returns a highlight's notes in creation order.
func ListNotesByHighlight(db *sql.DB, highlightID string) ([]highlight.Note, error) {
	return listNotes(db, "highlight_id", highlightID)
}

// ListNotesByArticle returns an article's article-level notes in creation order.
func ListNotesByArticle(db *sql.DB, articleID string) ([]highlight.Note, error) {
	return listNotes(db, "article_id", articleID)
}

func listNotes(db *sql.DB, column, id string) ([]highlight.Note, error) {
	query := `
		SELECT id, highlight_id, article_id, content, created_at
		FROM notes
		WHERE ` + column + ` = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := db.Query(query, id)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []highlight.Note
	for rows.Next() {
		var (
			n           highlight.Note
			highlightID sql.NullString
			articleID   sql.NullString
		)
		if err := rows.Scan(&n.ID, &highlightID, &articleID, &n.Content, &n.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		n.HighlightID = fromNullString(highlightID)
		n.ArticleID = fromNullString(articleID)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return out, nil
}

// attachNotes fills the Notes slice of each highlight.
func attachNotes(db *sql.DB, hs []*highlight.Highlight) error {
	for _, h := range hs {
		notes, err := ListNotesByHighlight(db, h.ID)
		if err != nil {
			return err
		}
		h.Notes = notes
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanArticle scans a single row into an Article struct.
func scanArticle(row scanner) (*highlight.Article, error) {
	var a highlight.Article
	err := row.Scan(&a.ID, &a.Title, &a.TitleNorm, &a.Content, &a.ContentHTML, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// scanHighlight scans a single row into a Highlight struct.
func scanHighlight(row scanner) (*highlight.Highlight, error) {
	var (
		h         highlight.Highlight
		color     sql.NullString
		deletedAt sql.NullInt64
	)

	err := row.Scan(&h.ID, &h.ArticleID, &h.Text, &h.Position, &color, &h.CreatedAt, &h.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	if color.Valid {
		h.Color = color.String
	}
	if deletedAt.Valid {
		h.DeletedAt = &deletedAt.Int64
	}

	return &h, nil
}

// toNullString converts a possibly empty string to sql.NullString.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// toNullStringPtr converts a *string to sql.NullString.
func toNullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

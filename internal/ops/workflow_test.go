package ops

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hollisb/marginalia/internal/config"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/store"
)

// TestFullWorkflow exercises the complete annotation lifecycle:
// add article → highlight → note → render → restore → delete → render (clean)
func TestFullWorkflow(t *testing.T) {
	database, err := store.Init(t.TempDir())
	require.NoError(t, err)
	defer database.Close()

	cfg := config.DefaultConfig()

	// 1. Add a markdown article
	added, err := AddArticle(database, cfg, AddArticleInput{
		Title:   "Pangrams",
		Content: articleMarkdown,
	})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)
	require.Greater(t, added.Tokens, 0)

	// 2. Highlight a phrase; the mid-word quote expands to whole words
	hl, err := CreateHighlight(database, CreateHighlightInput{
		ArticleID: added.ID,
		Quote:     "quick brow",
		Color:     "blue",
	})
	require.NoError(t, err)
	require.Equal(t, "token_span", hl.Kind)
	require.Equal(t, "quick brown", hl.Text)

	// 3. Attach a note
	note, err := AddNote(database, AddNoteInput{HighlightID: hl.ID, Content: "the famous phrase"})
	require.NoError(t, err)
	require.NotEmpty(t, note.ID)

	// 4. Render: one mark, flagged as noted
	rendered, err := RenderArticle(database, cfg, RenderArticleInput{ArticleID: added.ID})
	require.NoError(t, err)
	require.Contains(t, rendered.Content, `data-highlight-id="`+hl.ID+`"`)
	require.Contains(t, rendered.Content, `data-has-notes="true"`)
	require.Empty(t, rendered.Report.Skipped())

	// 5. Rendering is idempotent over its own output
	again, err := RenderArticle(database, cfg, RenderArticleInput{ArticleID: added.ID})
	require.NoError(t, err)
	require.Equal(t, rendered.Content, again.Content)

	// 6. Restore resolves by token ids without drift
	restored, err := RestoreHighlight(database, RestoreHighlightInput{HighlightID: hl.ID})
	require.NoError(t, err)
	require.Equal(t, "tokens", restored.Strategy)
	require.Equal(t, "quick brown", restored.Text)
	require.False(t, restored.Drifted)

	// 7. The article appears in listings with its highlight count
	list, err := ListArticles(database, ListArticlesInput{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, 1, list.Items[0].Highlights)

	// 8. Delete the highlight
	deleted, err := DeleteHighlight(database, DeleteHighlightInput{ID: hl.ID})
	require.NoError(t, err)
	require.True(t, deleted.Deleted)

	// 9. Render again: clean content, no marks
	clean, err := RenderArticle(database, cfg, RenderArticleInput{ArticleID: added.ID})
	require.NoError(t, err)
	require.False(t, strings.Contains(clean.Content, "data-highlight-id"))

	// 10. Restoring the deleted highlight is NOT_FOUND
	_, err = RestoreHighlight(database, RestoreHighlightInput{HighlightID: hl.ID})
	require.Error(t, err)
	var opErr *errors.Error
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, errors.ErrNotFound, opErr.Code)
}

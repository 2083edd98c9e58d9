package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hollisb/marginalia/internal/config"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// ArticleAddRequest represents the arguments for article_add.
type ArticleAddRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Format  string `json:"format,omitempty"`
}

// ArticleGetRequest represents the arguments for article_get.
type ArticleGetRequest struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
}

// ArticleListRequest represents the arguments for article_list.
type ArticleListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ArticleRenderRequest represents the arguments for article_render.
type ArticleRenderRequest struct {
	ArticleID string `json:"article_id"`
}

// HighlightCreateRequest represents the arguments for highlight_create.
type HighlightCreateRequest struct {
	ArticleID  string `json:"article_id"`
	Quote      string `json:"quote"`
	Occurrence int    `json:"occurrence,omitempty"`
	Color      string `json:"color,omitempty"`
	Note       string `json:"note,omitempty"`
}

// HighlightListRequest represents the arguments for highlight_list.
type HighlightListRequest struct {
	ArticleID string `json:"article_id"`
}

// HighlightDeleteRequest represents the arguments for highlight_delete.
type HighlightDeleteRequest struct {
	ID string `json:"id"`
}

// HighlightColorRequest represents the arguments for highlight_color.
type HighlightColorRequest struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

// HighlightRestoreRequest represents the arguments for highlight_restore.
type HighlightRestoreRequest struct {
	ID string `json:"id"`
}

// NoteAddRequest represents the arguments for note_add.
type NoteAddRequest struct {
	HighlightID string `json:"highlight_id,omitempty"`
	ArticleID   string `json:"article_id,omitempty"`
	Content     string `json:"content"`
}

// NoteListRequest represents the arguments for note_list.
type NoteListRequest struct {
	HighlightID string `json:"highlight_id,omitempty"`
	ArticleID   string `json:"article_id,omitempty"`
}

// Handler implementations

// HandleArticleAdd handles the article_add tool call.
func (h *Handlers) HandleArticleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ArticleAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.AddArticle(h.db, h.cfg, ops.AddArticleInput{
		Title:   input.Title,
		Content: input.Content,
		Format:  ops.ArticleFormat(input.Format),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleArticleGet handles the article_get tool call.
func (h *Handlers) HandleArticleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ArticleGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetArticle(h.db, ops.GetArticleInput{
		ID:    input.ID,
		Title: input.Title,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleArticleList handles the article_list tool call.
func (h *Handlers) HandleArticleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ArticleListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListArticles(h.db, ops.ListArticlesInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleArticleRender handles the article_render tool call.
func (h *Handlers) HandleArticleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ArticleRenderRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RenderArticle(h.db, h.cfg, ops.RenderArticleInput{
		ArticleID: input.ArticleID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHighlightCreate handles the highlight_create tool call.
func (h *Handlers) HandleHighlightCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HighlightCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CreateHighlight(h.db, ops.CreateHighlightInput{
		ArticleID:  input.ArticleID,
		Quote:      input.Quote,
		Occurrence: input.Occurrence,
		Color:      input.Color,
		Note:       input.Note,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHighlightList handles the highlight_list tool call.
func (h *Handlers) HandleHighlightList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HighlightListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListHighlights(h.db, ops.ListHighlightsInput{
		ArticleID: input.ArticleID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHighlightDelete handles the highlight_delete tool call.
func (h *Handlers) HandleHighlightDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HighlightDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteHighlight(h.db, ops.DeleteHighlightInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHighlightColor handles the highlight_color tool call.
func (h *Handlers) HandleHighlightColor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HighlightColorRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateColor(h.db, ops.UpdateColorInput{ID: input.ID, Color: input.Color})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHighlightRestore handles the highlight_restore tool call.
func (h *Handlers) HandleHighlightRestore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HighlightRestoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RestoreHighlight(h.db, ops.RestoreHighlightInput{HighlightID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNoteAdd handles the note_add tool call.
func (h *Handlers) HandleNoteAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.AddNote(h.db, ops.AddNoteInput{
		HighlightID: input.HighlightID,
		ArticleID:   input.ArticleID,
		Content:     input.Content,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNoteList handles the note_list tool call.
func (h *Handlers) HandleNoteList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListNotes(h.db, ops.ListNotesInput{
		HighlightID: input.HighlightID,
		ArticleID:   input.ArticleID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if appErr, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
			"status":  appErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if appErr.Code != errors.ErrInternal && appErr.Details != nil {
			errorObj["details"] = appErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

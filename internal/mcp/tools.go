package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions

var articleAddToolDef = mcp.NewTool("article_add",
	mcp.WithDescription("Store a new article. Markdown and HTML content is made token-addressable so highlights survive re-rendering."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Article title, unique after normalization")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Article body")),
	mcp.WithString("format", mcp.Description("Content format: markdown (default), html, or text")),
)

var articleGetToolDef = mcp.NewTool("article_get",
	mcp.WithDescription("Retrieve an article and its highlights by id or title."),
	mcp.WithString("id", mcp.Description("Article ULID")),
	mcp.WithString("title", mcp.Description("Article title (alternative to id)")),
)

var articleListToolDef = mcp.NewTool("article_list",
	mcp.WithDescription("List stored articles, most recently updated first."),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
)

var articleRenderToolDef = mcp.NewTool("article_render",
	mcp.WithDescription("Render an article's content with all active highlights applied. Unplaceable highlights are reported, never fatal."),
	mcp.WithString("article_id", mcp.Required(), mcp.Description("Article ULID")),
)

var highlightCreateToolDef = mcp.NewTool("highlight_create",
	mcp.WithDescription("Highlight a quoted phrase in an article. Quotes that cut into words expand to whole words on token-addressable content."),
	mcp.WithString("article_id", mcp.Required(), mcp.Description("Article ULID")),
	mcp.WithString("quote", mcp.Required(), mcp.Description("The text to highlight")),
	mcp.WithNumber("occurrence", mcp.Description("1-based occurrence of the quote (default 1)")),
	mcp.WithString("color", mcp.Description("Highlight color name")),
	mcp.WithString("note", mcp.Description("Optional note attached on creation")),
)

var highlightListToolDef = mcp.NewTool("highlight_list",
	mcp.WithDescription("List an article's active highlights with their notes."),
	mcp.WithString("article_id", mcp.Required(), mcp.Description("Article ULID")),
)

var highlightDeleteToolDef = mcp.NewTool("highlight_delete",
	mcp.WithDescription("Soft-delete a highlight."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Highlight ULID")),
)

var highlightColorToolDef = mcp.NewTool("highlight_color",
	mcp.WithDescription("Change a highlight's color."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Highlight ULID")),
	mcp.WithString("color", mcp.Required(), mcp.Description("New color name")),
)

var highlightRestoreToolDef = mcp.NewTool("highlight_restore",
	mcp.WithDescription("Resolve a highlight's stored position against the article's current content and report the strategy used and any text drift."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Highlight ULID")),
)

var noteAddToolDef = mcp.NewTool("note_add",
	mcp.WithDescription("Attach a note to a highlight or directly to an article."),
	mcp.WithString("highlight_id", mcp.Description("Highlight ULID (exactly one of highlight_id or article_id)")),
	mcp.WithString("article_id", mcp.Description("Article ULID (exactly one of highlight_id or article_id)")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Note text")),
)

var noteListToolDef = mcp.NewTool("note_list",
	mcp.WithDescription("List a highlight's or an article's notes."),
	mcp.WithString("highlight_id", mcp.Description("Highlight ULID (exactly one of highlight_id or article_id)")),
	mcp.WithString("article_id", mcp.Description("Article ULID (exactly one of highlight_id or article_id)")),
)

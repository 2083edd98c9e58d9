package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hollisb/marginalia/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"article_add": {
		def:     articleAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleArticleAdd },
	},
	"article_get": {
		def:     articleGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleArticleGet },
	},
	"article_list": {
		def:     articleListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleArticleList },
	},
	"article_render": {
		def:     articleRenderToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleArticleRender },
	},
	"highlight_create": {
		def:     highlightCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHighlightCreate },
	},
	"highlight_list": {
		def:     highlightListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHighlightList },
	},
	"highlight_delete": {
		def:     highlightDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHighlightDelete },
	},
	"highlight_color": {
		def:     highlightColorToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHighlightColor },
	},
	"highlight_restore": {
		def:     highlightRestoreToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHighlightRestore },
	},
	"note_add": {
		def:     noteAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteAdd },
	},
	"note_list": {
		def:     noteListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteList },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with marginalia tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"marginalia",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(db, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

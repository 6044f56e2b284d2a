package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/sorteador/internal/session"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"sorteio_load": {
		def:     loadToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLoad },
	},
	"sorteio_column": {
		def:     columnToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleColumn },
	},
	"sorteio_draw": {
		def:     drawToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDraw },
	},
	"sorteio_ranked": {
		def:     rankedToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRanked },
	},
	"sorteio_groups": {
		def:     groupsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGroups },
	},
	"sorteio_category": {
		def:     categoryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCategory },
	},
	"sorteio_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"sorteio_history": {
		def:     historyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistory },
	},
	"sorteio_history_clear": {
		def:     historyClearToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryClear },
	},
	"sorteio_chart": {
		def:     chartToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleChart },
	},
	"sorteio_status": {
		def:     statusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus },
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

// NewServer creates a new MCP server with Sorteador tools registered.
// Tools listed in the session config's DisabledTools are excluded.
func NewServer(sess *session.Session, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"sorteador",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(sess)

	disabled := make(map[string]bool)
	for _, name := range sess.Config.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport. It returns when the
// client closes stdin.
func Run(sess *session.Session, version string) error {
	s := NewServer(sess, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

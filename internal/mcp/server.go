package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/scorelog/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"log_inspect": {
		def:     inspectToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInspect },
	},
	"partition_validate": {
		def:     validateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleValidate },
	},
	"marks_transfer": {
		def:     transferToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTransfer },
	},
	"run_get": {
		def:     runGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRunGet },
	},
	"run_list": {
		def:     runsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRuns },
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

// NewServer creates a new MCP server with scorelog tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"scorelog",
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

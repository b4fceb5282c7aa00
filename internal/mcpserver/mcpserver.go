// Package mcpserver exposes the percentile engine over the Model Context
// Protocol, so agent tooling can query growth percentiles directly.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sprouthq/sprout/pkg/lms"
	"github.com/sprouthq/sprout/pkg/reference"
)

// Server wraps the MCP server and registers the sprout tools.
type Server struct {
	server *mcp.Server
	engine *lms.Engine
	table  *reference.Table
}

// NewServer creates an MCP server bound to a loaded reference table.
func NewServer(version string, table *reference.Table) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "sprout",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server: server,
		engine: lms.New(table),
		table:  table,
	}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "growth_percentile",
		Description: "Compute a child's growth percentile from height (cm) or weight (kg) " +
			"using LMS growth-reference tables. Provide either age_months or birth_date.",
	}, s.handlePercentile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "age_in_months",
		Description: "Convert a birth date to age in whole calendar months (reference-table bucket convention).",
	}, s.handleAge)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "table_coverage",
		Description: "Report which age buckets the loaded growth-reference table covers per sex and measurement.",
	}, s.handleCoverage)
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

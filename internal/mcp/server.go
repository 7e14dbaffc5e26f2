// ABOUTME: MCP server setup for the coach engine.
// ABOUTME: Wraps the MCP server with engine access and user identity.
package mcp

import (
	"context"

	"github.com/conradlabs/coach/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with engine access.
type Server struct {
	mcpServer *mcp.Server
	engine    *engine.Engine
	userID    string
}

// NewServer creates a new MCP server over the engine.
func NewServer(e *engine.Engine, userID string) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "coach",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		engine:    e,
		userID:    userID,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

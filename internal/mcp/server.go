// ABOUTME: MCP server initialization and configuration for munch.
// ABOUTME: Exposes food recognition and logging tools to AI agents over stdio.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/munch/internal/config"
	"github.com/2389-research/munch/internal/tracker"
)

// Server wraps the MCP server with a food tracker.
type Server struct {
	mcp     *gomcp.Server
	tracker *tracker.Tracker
	topK    int
}

// ServerOption configures optional Server settings.
type ServerOption func(*Server)

// WithDefaultTopK sets how many matches recognition tools return when the
// caller does not ask for a specific number.
func WithDefaultTopK(k int) ServerOption {
	return func(s *Server) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewServer creates an MCP server with food recognition and logging tools.
func NewServer(tr *tracker.Tracker, opts ...ServerOption) (*Server, error) {
	if tr == nil {
		return nil, fmt.Errorf("tracker is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "munch",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		tracker: tr,
		topK:    config.DefaultTopK,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerFoodTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

// ABOUTME: MCP server initialization and configuration for moodlog.
// ABOUTME: Exposes the mood store to AI agents as a small set of tools over stdio.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/2389-research/moodlog/internal/models"
)

// MoodStore is the part of the mood store the tools use.
type MoodStore interface {
	Select(mood models.MoodOption) models.MoodEntry
	Delete(entry models.MoodEntry)
	List() models.MoodList
	Flush(ctx context.Context) error
}

// Server wraps the MCP server with the mood store.
type Server struct {
	mcp   *gomcp.Server
	moods MoodStore
	log   zerolog.Logger
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger used for tool call tracing.
func WithLogger(log zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates an MCP server backed by moods.
func NewServer(moods MoodStore, opts ...ServerOption) (*Server, error) {
	if moods == nil {
		return nil, fmt.Errorf("mood store is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "moodlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:   mcpServer,
		moods: moods,
		log:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerMoodTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Msg("serving MCP over stdio")
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

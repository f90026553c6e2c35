// ABOUTME: MCP server command implementation for moodlog.
// ABOUTME: Starts the MCP server in stdio mode so agents can record and review moods.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcppkg "github.com/2389-research/moodlog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio, letting agents list mood options,
record moods, read the history, and delete entries.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	globalStore.Hydrate(ctx)

	server, err := mcppkg.NewServer(globalStore, mcppkg.WithLogger(globalLogger))
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}

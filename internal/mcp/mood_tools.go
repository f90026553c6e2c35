// ABOUTME: MCP tool implementations for mood tracking.
// ABOUTME: Registers list_mood_options, record_mood, list_moods, and delete_mood.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/moodlog/internal/models"
)

const defaultListLimit = 20

func (s *Server) registerMoodTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_mood_options",
		Description: "List the moods that can be recorded, numbered in picker order.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleListMoodOptions)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "record_mood",
		Description: "Record how the user feels right now. Pass either the mood's emoji or description, or its 1-based option number.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"mood": {"type": "string", "description": "Emoji or description, e.g. \"happy\" or \"🤔\""},
				"option": {"type": "number", "description": "1-based option number from list_mood_options"}
			}
		}`),
	}, s.handleRecordMood)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_moods",
		Description: "List recorded moods, newest first. Each line starts with the entry's timestamp, which delete_mood accepts.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of entries to return (default 20)"}
			}
		}`),
	}, s.handleListMoods)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "delete_mood",
		Description: "Delete a recorded mood by its timestamp (Unix milliseconds, as shown by list_moods).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"timestamp": {"type": "number", "description": "Timestamp of the entry to delete"}
			},
			"required": ["timestamp"]
		}`),
	}, s.handleDeleteMood)
}

func (s *Server) handleListMoodOptions(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var sb strings.Builder
	for i, opt := range models.MoodOptions {
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, opt.Emoji, opt.Description)
	}
	return textResult(sb.String()), nil
}

func (s *Server) handleRecordMood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Mood   string `json:"mood"`
		Option int    `json:"option"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	var opt models.MoodOption
	switch {
	case args.Mood != "":
		found, ok := models.FindMoodOption(args.Mood)
		if !ok {
			return toolError("unknown mood %q. Use list_mood_options to see valid moods", args.Mood), nil
		}
		opt = found
	case args.Option != 0:
		if args.Option < 1 || args.Option > len(models.MoodOptions) {
			return toolError("option must be between 1 and %d", len(models.MoodOptions)), nil
		}
		opt = models.MoodOptions[args.Option-1]
	default:
		return toolError("mood or option is required"), nil
	}

	entry := s.moods.Select(opt)
	s.log.Debug().Int64("timestamp", entry.Timestamp).Str("mood", opt.Description).Msg("recorded mood")

	text := fmt.Sprintf("Recorded %s %s at %s (timestamp %d)", opt.Emoji, opt.Description, entry.FormatTime(), entry.Timestamp)
	if err := s.moods.Flush(ctx); err != nil {
		text += fmt.Sprintf("\nWarning: not yet saved: %v", err)
	}
	return textResult(text), nil
}

func (s *Server) handleListMoods(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit int `json:"limit"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = defaultListLimit
	}

	list := s.moods.List().Reversed()
	if len(list) == 0 {
		return textResult("No moods recorded yet."), nil
	}
	if len(list) > args.Limit {
		list = list[:args.Limit]
	}

	var sb strings.Builder
	for _, entry := range list {
		fmt.Fprintf(&sb, "- %d %s %s (%s)\n", entry.Timestamp, entry.Mood.Emoji, entry.Mood.Description, entry.FormatTime())
	}
	return textResult(sb.String()), nil
}

func (s *Server) handleDeleteMood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Timestamp *int64 `json:"timestamp"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Timestamp == nil {
		return toolError("timestamp is required"), nil
	}

	var target *models.MoodEntry
	for _, entry := range s.moods.List() {
		if entry.Timestamp == *args.Timestamp {
			e := entry
			target = &e
			break
		}
	}
	if target == nil {
		return toolError("no mood recorded at timestamp %d", *args.Timestamp), nil
	}

	s.moods.Delete(*target)
	s.log.Debug().Int64("timestamp", target.Timestamp).Msg("deleted mood")

	text := fmt.Sprintf("Deleted %s %s from %s", target.Mood.Emoji, target.Mood.Description, target.FormatTime())
	if err := s.moods.Flush(ctx); err != nil {
		text += fmt.Sprintf("\nWarning: not yet saved: %v", err)
	}
	return textResult(text), nil
}

// unmarshalArgs decodes tool arguments, treating absent arguments as an empty object.
func unmarshalArgs(req *gomcp.CallToolRequest, v any) error {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

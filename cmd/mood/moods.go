// ABOUTME: CLI commands for recording, listing, and deleting moods without the TUI.
// ABOUTME: Each command hydrates the store first so writes extend the saved history.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/2389-research/moodlog/internal/models"
)

var pickCmd = &cobra.Command{
	Use:   "pick <number|emoji|description>",
	Short: "Record a mood",
	Long:  "Record a mood by its option number (see 'mood options'), emoji, or description.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPick,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded moods",
	Long:  "List recorded moods, newest first. The first column is the timestamp 'mood delete' takes.",
	RunE:  runHistory,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <timestamp>",
	Short: "Delete a recorded mood",
	Long:  "Delete the mood recorded at the given timestamp (Unix milliseconds, as shown by 'mood history').",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the moods you can record",
	RunE:  runOptions,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(optionsCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of entries to show (0 for all)")
}

// resolveMoodOption accepts a 1-based option number, an emoji, or a description.
func resolveMoodOption(arg string) (models.MoodOption, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(models.MoodOptions) {
			return models.MoodOption{}, fmt.Errorf("option must be between 1 and %d", len(models.MoodOptions))
		}
		return models.MoodOptions[n-1], nil
	}
	opt, ok := models.FindMoodOption(arg)
	if !ok {
		return models.MoodOption{}, fmt.Errorf("unknown mood %q (run 'mood options' to see choices)", arg)
	}
	return opt, nil
}

func runPick(cmd *cobra.Command, args []string) error {
	opt, err := resolveMoodOption(args[0])
	if err != nil {
		return err
	}

	globalStore.Hydrate(cmd.Context())
	entry := globalStore.Select(opt)

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s at %s\n", opt.Emoji, opt.Description, entry.FormatTime())
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	globalStore.Hydrate(cmd.Context())

	entries := globalStore.List().Reversed()
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No moods recorded yet.")
		return nil
	}
	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}

	out := cmd.OutOrStdout()
	for _, entry := range entries {
		fmt.Fprintf(out, "%d  %s %-12s %s\n", entry.Timestamp, entry.Mood.Emoji, entry.Mood.Description, entry.FormatTime())
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ts, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", args[0], err)
	}

	globalStore.Hydrate(cmd.Context())

	for _, entry := range globalStore.List() {
		if entry.Timestamp == ts {
			globalStore.Delete(entry)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s from %s\n", entry.Mood.Emoji, entry.Mood.Description, entry.FormatTime())
			return nil
		}
	}
	return fmt.Errorf("no mood recorded at timestamp %d", ts)
}

func runOptions(cmd *cobra.Command, args []string) error {
	for i, opt := range models.MoodOptions {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s %s\n", i+1, opt.Emoji, opt.Description)
	}
	return nil
}

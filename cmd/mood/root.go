// ABOUTME: Root Cobra command for the mood CLI; running it bare opens the TUI.
// ABOUTME: A pre-run hook opens the mood store and a cobra finalizer closes it on every exit path.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/2389-research/moodlog/internal/config"
	"github.com/2389-research/moodlog/internal/logging"
	"github.com/2389-research/moodlog/internal/mood"
	"github.com/2389-research/moodlog/internal/storage"
	"github.com/2389-research/moodlog/internal/tui"
)

var globalConfig *config.Config
var globalLogger = zerolog.Nop()
var globalBlobs storage.BlobStore
var globalStore *mood.Store

var rootCmd = &cobra.Command{
	Use:   "mood",
	Short: "Track how you feel, one emoji at a time",
	Long: `
 _ __ ___   ___   ___   __| |
| '_ ' _ \ / _ \ / _ \ / _' |
| | | | | | (_) | (_) | (_| |
|_| |_| |_|\___/ \___/ \__,_|

Record moods from a short list, browse them newest first,
and swipe rows away to delete them. Local-first with optional remote backup.`,
	SilenceUsage: true,
	RunE:         runTUI,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsStore(cmd) {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg
		globalLogger = logging.New("moodlog", cfg.LogLevel)

		blobs, err := storage.Open(cfg)
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend(), err)
		}
		globalBlobs = blobs
		globalStore = mood.New(blobs, mood.WithLogger(globalLogger))

		globalLogger.Debug().
			Str("backend", cfg.StorageBackend()).
			Bool("remote", cfg.HasRemote()).
			Msg("mood store ready")
		return nil
	},
}

func init() {
	// Finalizers run even when RunE fails, unlike PersistentPostRunE.
	cobra.OnFinalize(closeStore)
}

// needsStore reports whether cmd works on the mood list. Help, setup, the
// option list, and shell completion never touch storage.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "setup", "options", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// closeStore drains queued writes and then releases storage. Safe to call twice.
func closeStore() {
	if globalStore != nil {
		if err := globalStore.Close(); err != nil {
			globalLogger.Debug().Err(err).Msg("failed to close mood store")
		}
		globalStore = nil
	}
	if globalBlobs != nil {
		if err := globalBlobs.Close(); err != nil {
			globalLogger.Debug().Err(err).Msg("failed to close storage")
		}
		globalBlobs = nil
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hydrated := globalStore.Start(ctx)

	model := tui.NewAppModel(globalStore, tui.AppOptions{
		Threshold:   globalConfig.SwipeThreshold(),
		DeleteDelay: globalConfig.DeleteDelay(),
		CellUnits:   globalConfig.CellUnits(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, runErr := p.Run()
	interrupted := ctx.Err() != nil

	cancel()
	<-hydrated

	if runErr != nil && !interrupted {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}

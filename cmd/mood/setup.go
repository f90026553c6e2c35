// ABOUTME: Cobra command for interactive storage and remote backup setup.
// ABOUTME: Launches the bubbletea wizard and writes the chosen settings to the config file.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/moodlog/internal/config"
	"github.com/2389-research/moodlog/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose a storage backend and optional remote backup",
	Long:  "Interactive wizard to pick where moods are stored and, optionally, connect a remote backup.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(tui.SetupValues{
		Backend: cfg.StorageBackend(),
		APIURL:  cfg.Remote.APIURL,
		TeamID:  cfg.Remote.TeamID,
		APIKey:  cfg.Remote.APIKey,
	})

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Fprintln(cmd.OutOrStdout(), "Setup cancelled.")
		return nil
	}

	values := final.Result()
	cfg.Storage.Backend = values.Backend
	cfg.Remote = config.RemoteConfig{
		APIURL: values.APIURL,
		TeamID: values.TeamID,
		APIKey: values.APIKey,
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Config saved successfully.")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configPath)
	}
	return nil
}

// ABOUTME: Tests for the root command lifecycle: which commands open storage and when it is closed.
// ABOUTME: Executes the real command tree against temp config and data directories.
package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/2389-research/moodlog/internal/models"
	"github.com/2389-research/moodlog/internal/storage"
)

// execute runs the mood command tree with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// useDataDir points config and storage at fresh temp directories.
func useDataDir(t *testing.T, backend string) string {
	t.Helper()
	dataDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MOODLOG_STORAGE_BACKEND", backend)
	t.Setenv("MOODLOG_STORAGE_DATA_DIR", dataDir)
	return dataDir
}

func TestNeedsStore(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"pick", "1"}, true},
		{[]string{"history"}, true},
		{[]string{"delete", "1"}, true},
		{[]string{"mcp"}, true},
		{[]string{"options"}, false},
		{[]string{"setup"}, false},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd, _, err := rootCmd.Find(tt.args)
			if err != nil {
				t.Fatalf("Find(%v) error: %v", tt.args, err)
			}
			if got := needsStore(cmd); got != tt.want {
				t.Errorf("needsStore(%s) = %v, want %v", cmd.Name(), got, tt.want)
			}
		})
	}

	completion := &cobra.Command{Use: "completion"}
	bash := &cobra.Command{Use: "bash"}
	completion.AddCommand(bash)
	if needsStore(bash) {
		t.Error("completion subcommands should not open storage")
	}
	if needsStore(&cobra.Command{Use: "help"}) {
		t.Error("help should not open storage")
	}
	if needsStore(&cobra.Command{Use: cobra.ShellCompRequestCmd}) {
		t.Error("the hidden completion request command should not open storage")
	}
}

func TestCompletionSkipsStorage(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	// An unusable backend would fail the pre-run hook if it loaded config.
	t.Setenv("MOODLOG_STORAGE_BACKEND", "postgres")

	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "bash completion") {
		t.Errorf("expected a bash completion script, got %q", out[:min(len(out), 80)])
	}
	if globalStore != nil || globalBlobs != nil {
		t.Error("completion should not open the mood store")
	}
}

func TestStoreClosedAfterCommandError(t *testing.T) {
	dataDir := useDataDir(t, "badger")

	if _, err := execute(t, "delete", "42"); err == nil {
		t.Fatal("expected an error for a missing timestamp")
	}
	if globalStore != nil || globalBlobs != nil {
		t.Fatal("expected the store to be closed after a failing command")
	}

	// Badger holds a directory lock until closed.
	db, err := storage.NewBadgerBlobStore(filepath.Join(dataDir, "badger"))
	if err != nil {
		t.Fatalf("badger still locked after the command failed: %v", err)
	}
	_ = db.Close()
}

func TestPickDrainsWritesBeforeExit(t *testing.T) {
	dataDir := useDataDir(t, "file")

	out, err := execute(t, "pick", "2")
	if err != nil {
		t.Fatalf("pick error: %v", err)
	}
	if !strings.Contains(out, "Recorded 🤔 pensive") {
		t.Errorf("unexpected output %q", out)
	}

	files, err := storage.NewFileBlobStore(filepath.Join(dataDir, "blobs"))
	if err != nil {
		t.Fatalf("NewFileBlobStore error: %v", err)
	}
	blob, err := files.Load(context.Background(), storage.DataKey)
	if err != nil {
		t.Fatalf("expected the pick to be on disk: %v", err)
	}
	data, err := storage.DecodeAppData(blob)
	if err != nil {
		t.Fatalf("DecodeAppData error: %v", err)
	}
	if len(data.MoodList) != 1 || data.MoodList[0].Mood != models.MoodOptions[1] {
		t.Errorf("unexpected saved list %+v", data.MoodList)
	}
}

func TestCloseStoreTwice(t *testing.T) {
	globalBlobs = storage.NewMemoryBlobStore()
	closeStore()
	closeStore()
	if globalBlobs != nil || globalStore != nil {
		t.Error("expected globals cleared")
	}
}

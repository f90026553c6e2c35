// ABOUTME: Remote backup credential check used by the setup wizard.
// ABOUTME: Reads the mood blob through the remote store; a missing blob still counts as success.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/2389-research/moodlog/internal/storage"
)

// validateTimeout bounds a single credential check.
const validateTimeout = 10 * time.Second

// ValidateConnection checks that the remote backup accepts the given credentials.
// The context allows cancellation when the user quits during validation.
func ValidateConnection(ctx context.Context, apiURL, apiKey, teamID string) error {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	remote := storage.NewRemoteBlobStore(apiURL, apiKey, teamID)
	defer func() { _ = remote.Close() }()

	if err := remote.Ping(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}

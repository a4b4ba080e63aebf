// Package cli is the terminal shell over the sync session and mutation gateway.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/shoe-inventory/internal/service"
)

// Prompter reads field values from the user.
type Prompter interface {
	Interactive() bool
	Ask(label, def string) (string, error)
	SetAssumeYes(yes bool)
}

// App holds what the commands operate on.
type App struct {
	Session  *service.Session
	Gateway  *service.Gateway
	Prompter Prompter
	Out      io.Writer

	// SyncTimeout bounds the wait for the first snapshot.
	SyncTimeout time.Duration
}

// NewRootCommand builds the shoes command tree.
func NewRootCommand(app *App, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "shoes",
		Short:         "Manage the shared shoe inventory",
		Long: `Manage the shared shoe inventory.

Records live in the store chosen by STORE_DRIVER (postgres, firestore or memory).
The memory store is dropped when the command exits, so records added with it
are not visible to later commands.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	var assumeYes bool
	root.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if app.Prompter != nil && assumeYes {
			app.Prompter.SetAssumeYes(true)
		}
	}

	root.AddCommand(
		newListCommand(app),
		newWatchCommand(app),
		newAddCommand(app),
		newEditCommand(app),
		newDeleteCommand(app),
		newExportCommand(app),
		newWhoamiCommand(app),
	)

	return root
}

// awaitSnapshot blocks until the session has received its first record set
// or reported a sync failure.
func (a *App) awaitSnapshot(ctx context.Context) error {
	timeout := a.SyncTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	changed := make(chan struct{}, 1)
	unregister := a.Session.OnChange(func(service.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unregister()

	for {
		if err := a.Session.Err(); err != nil {
			return err
		}
		if a.Session.Version() > 0 {
			return nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return fmt.Errorf("failed to load shoe data: %w", ctx.Err())
		}
	}
}

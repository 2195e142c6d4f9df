package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zsh-sage/toggle-term/internal/config"
	"github.com/zsh-sage/toggle-term/internal/trigger"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Fire one toggle for the current pane",
	Long: `Send a toggle trigger for the pane this command runs in.

This is what the key binding invokes. It resolves the current pane,
hands it to the daemon, and exits; the daemon decides whether the
toggle creates, shows, or hides the tab's terminal pane.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd)
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command) error {
	ctx := cmd.Context()

	m, err := getMultiplexer()
	if err != nil {
		return fmt.Errorf("no supported terminal multiplexer found: %w", err)
	}

	pane, err := m.CurrentPane(ctx)
	if err != nil {
		return fmt.Errorf("resolve current pane: %w", err)
	}

	// Config load failure is not fatal here: the trigger only needs the
	// socket path, and the flag or package default still resolves one.
	cfg, _ := config.Load()

	t := trigger.Trigger{
		ID:     uuid.NewString(),
		PaneID: pane.ID,
		TabID:  pane.Window,
		TS:     time.Now(),
	}
	if err := trigger.Send(resolveSocket(cfg), t); err != nil {
		return fmt.Errorf("%w\n\nis the daemon running? start it with: toggle-term serve", err)
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zsh-sage/toggle-term/internal/config"
	"github.com/zsh-sage/toggle-term/internal/snapshot"
	"github.com/zsh-sage/toggle-term/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactive live view of toggle pane status",
	Long: `Launch an interactive terminal UI that refreshes the per-tab toggle
pane status continuously. Press / to filter by tab name or id, r to
refresh immediately, q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command) error {
	m, err := getMultiplexer()
	if err != nil {
		return fmt.Errorf("no supported terminal multiplexer found: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	tui := &watch.TUI{
		Mux:             m,
		Snapshots:       snapshot.NewStore(resolveSnapshotDir(cfg)),
		RefreshInterval: cfg.RefreshDuration,
	}
	return tui.Run(cmd.Context())
}

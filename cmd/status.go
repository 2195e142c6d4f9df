package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zsh-sage/toggle-term/internal/config"
	"github.com/zsh-sage/toggle-term/internal/snapshot"
	"github.com/zsh-sage/toggle-term/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List per-tab toggle pane status",
	Long: `List every tab with a toggle terminal pane and whether that pane is
focused, shown, or stale. Reads the daemon's on-disk snapshots and
revalidates them against the live tmux topology, so it works whether or
not the daemon is running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command) error {
	ctx := cmd.Context()

	m, err := getMultiplexer()
	if err != nil {
		return fmt.Errorf("no supported terminal multiplexer found: %w", err)
	}

	cfg, _ := config.Load()
	snaps := snapshot.NewStore(resolveSnapshotDir(cfg))

	rows, err := status.Collect(ctx, m, snaps)
	if err != nil {
		return fmt.Errorf("collect status: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no toggle panes")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAB\tNAME\tPANE\tSTATE\tSINCE")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%%%d\t%s\t%s\n",
			r.TabID, r.TabName, r.PaneID, r.State, r.Since.Format("15:04:05"))
	}
	return w.Flush()
}

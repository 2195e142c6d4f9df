// Package cmd wires the toggle-term CLI.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/zsh-sage/toggle-term/internal/config"
	"github.com/zsh-sage/toggle-term/internal/mux"
	"github.com/zsh-sage/toggle-term/internal/snapshot"
	"github.com/zsh-sage/toggle-term/internal/trigger"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	// Global flags.
	flagMux         string
	flagSocket      string
	flagSnapshotDir string
)

var rootCmd = &cobra.Command{
	Use:   "toggle-term",
	Short: "Per-tab toggle terminal pane for tmux",
	Long: `toggle-term gives every tmux window (tab) a dedicated terminal pane
bound to a single key: press it to create the pane, press it again to
jump to it, press it once more to return to the pane you came from.

The daemon ("toggle-term serve") owns all toggle state; the key binding
fires the lightweight "toggle-term toggle" client, which hands the
invoking pane to the daemon over a unix socket.`,
}

// Execute runs the root command.
func Execute() {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx := pslog.ContextWithLogger(context.Background(), logger)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", envOrDefault("TOGGLE_TERM_MUX", ""), "terminal multiplexer: tmux (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", "", "trigger socket path (default: config, then $XDG_RUNTIME_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagSnapshotDir, "snapshot-dir", "", "snapshot directory (default: config, then $XDG_RUNTIME_DIR)")
}

// getMultiplexer returns the configured or auto-detected multiplexer.
func getMultiplexer() (mux.Multiplexer, error) {
	if flagMux != "" {
		return mux.FromName(flagMux)
	}
	return mux.Detect()
}

// resolveSocket picks the trigger socket path: flag, then config, then
// the package default.
func resolveSocket(cfg *config.Config) string {
	if flagSocket != "" {
		return flagSocket
	}
	if cfg != nil && cfg.Socket != "" {
		return cfg.Socket
	}
	return trigger.DefaultSocketPath()
}

// resolveSnapshotDir picks the snapshot directory with the same precedence.
func resolveSnapshotDir(cfg *config.Config) string {
	if flagSnapshotDir != "" {
		return flagSnapshotDir
	}
	if cfg != nil && cfg.SnapshotDir != "" {
		return cfg.SnapshotDir
	}
	return snapshot.DefaultDir()
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

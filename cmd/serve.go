package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/zsh-sage/toggle-term/internal/config"
	"github.com/zsh-sage/toggle-term/internal/logx"
	telem "github.com/zsh-sage/toggle-term/internal/otel"
	"github.com/zsh-sage/toggle-term/internal/registry"
	"github.com/zsh-sage/toggle-term/internal/snapshot"
	"github.com/zsh-sage/toggle-term/internal/toggle"
	"github.com/zsh-sage/toggle-term/internal/trigger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the toggle daemon",
	Long: `Run the daemon that owns all per-tab toggle state.

The daemon listens for triggers on a unix socket and applies one toggle
transition per trigger, in order. Configuration is loaded from
.toggle-term.yaml or environment variables; see the README for all
options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logx.Ctx(ctx)

	// Load configuration: defaults -> config file -> env vars.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.ConfigFile != "" {
		log.Info("config loaded", "file", cfg.ConfigFile)
	}

	// Wire build version into OTEL service metadata.
	telem.Version = Version

	// Initialize OTEL (no-op if no endpoint configured).
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		log.Warn("otel init failed", "err", err)
	}
	if tel != nil {
		defer tel.Shutdown(context.WithoutCancel(ctx))
	}

	m, err := getMultiplexer()
	if err != nil {
		return fmt.Errorf("no supported terminal multiplexer found: %w", err)
	}

	var metrics *telem.Metrics
	if tel != nil {
		metrics = tel.Metrics
	}

	ctrl := &toggle.Controller{
		Mux:       m,
		Registry:  registry.New(),
		Snapshots: snapshot.NewStore(resolveSnapshotDir(cfg)),
		Metrics:   metrics,
		Policy: toggle.Policy{
			Direction:              cfg.SplitDirection,
			SizePercent:            cfg.Size.Percent,
			ChangeInvokerEverytime: cfg.ChangeInvokerIDEverytime,
			AutoZoomTerminal:       cfg.Zoom.AutoZoomToggleTerminal,
			AutoZoomInvoker:        cfg.Zoom.AutoZoomInvokerPane,
			RememberZoomed:         cfg.Zoom.RememberZoomed,
		},
	}

	listener := trigger.NewListener(func(ctx context.Context, t trigger.Trigger) {
		handleTrigger(ctx, ctrl, t)
	}, resolveSocket(cfg))
	if err := listener.Start(ctx); err != nil {
		return fmt.Errorf("trigger listener: %w", err)
	}
	log.Info("listening for triggers",
		"socket", listener.SocketPath(),
		"mux", m.Name(),
		"snapshot_dir", ctrl.Snapshots.Dir())

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}

// handleTrigger resolves the invoking pane fresh and runs one toggle
// transition. The trigger's ids are hints from send time; the live pane's
// window, not the trigger's tab_id, decides which tab toggles.
func handleTrigger(ctx context.Context, ctrl *toggle.Controller, t trigger.Trigger) {
	log := logx.Ctx(ctx).With("trigger", t.ID)

	invoker, err := ctrl.Mux.PaneByID(ctx, t.PaneID)
	if err != nil {
		log.Warn("invoking pane vanished before toggle", "pane", t.PaneID, "err", err)
		return
	}
	if invoker.Window != t.TabID {
		log.Info("invoking pane changed tabs since trigger",
			"pane", invoker.ID, "sent_tab", t.TabID, "tab", invoker.Window)
	}

	// Rebind so the controller's logs carry the correlation id.
	ctx = pslog.ContextWithLogger(ctx, log)
	if err := ctrl.Toggle(ctx, invoker.Window, invoker); err != nil {
		log.Error("toggle failed", "tab", invoker.Window, "err", err)
	}
}

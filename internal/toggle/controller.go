// Package toggle implements the per-tab toggle pane state machine.
//
// A trigger either creates the terminal pane (tab inactive), focuses it
// (active but not focused), or returns focus to the invoker pane (terminal
// focused). Registry entries are hints about externally-owned panes, so
// every transition revalidates them against the live topology and repairs
// stale references before acting.
package toggle

import (
	"context"
	"fmt"

	"github.com/zsh-sage/toggle-term/internal/logx"
	"github.com/zsh-sage/toggle-term/internal/model"
	"github.com/zsh-sage/toggle-term/internal/mux"
	telem "github.com/zsh-sage/toggle-term/internal/otel"
	"github.com/zsh-sage/toggle-term/internal/registry"
	"github.com/zsh-sage/toggle-term/internal/snapshot"
)

// Policy holds the configured toggle behavior.
type Policy struct {
	// Direction and SizePercent control the split issued on creation.
	Direction   model.Direction
	SizePercent int

	// ChangeInvokerEverytime re-captures the invoker pane on every toggle
	// issued from a pane other than the terminal pane.
	ChangeInvokerEverytime bool

	// AutoZoomTerminal zooms the terminal pane whenever it is created or
	// shown.
	AutoZoomTerminal bool
	// AutoZoomInvoker zooms the invoker pane after hiding the terminal.
	AutoZoomInvoker bool
	// RememberZoomed records the terminal pane's zoom state on hide and
	// restores it on the next show.
	RememberZoomed bool
}

// Controller runs toggle transitions against a multiplexer.
// Transitions are invoked serially from the trigger listener; the registry
// carries its own locking for concurrent status readers.
type Controller struct {
	Mux       mux.Multiplexer
	Registry  *registry.Registry
	Snapshots *snapshot.Store
	Metrics   *telem.Metrics
	Policy    Policy
}

// resolved state of a tab, derived from TabState plus live topology.
type tabPhase int

const (
	phaseInactive tabPhase = iota
	phaseActiveElsewhere
	phaseActiveFocused
)

// Toggle runs one toggle transition for the tab the invoker pane lives in.
//
// The transition retries at most once: only a broken invoker reference
// discovered while hiding causes a retry, and that retry starts from a
// reset (inactive) state, so the second iteration always settles.
func (c *Controller) Toggle(ctx context.Context, tab int, invoker model.Pane) error {
	log := logx.WithTab(ctx, tab)
	st := c.Registry.GetOrInit(tab)

	const maxAttempts = 2
	for attempt := 0; attempt < maxAttempts; attempt++ {
		// Invoker capture: first toggle for the tab, or re-capture when the
		// policy asks for it and the trigger came from outside the terminal
		// pane.
		if st.InvokerID == model.PaneNone ||
			(c.Policy.ChangeInvokerEverytime && invoker.ID != st.PaneID) {
			st.InvokerID = invoker.ID
		}

		term, phase := c.resolve(ctx, tab, st, invoker)
		switch phase {
		case phaseInactive:
			return c.create(ctx, st, tab, invoker)
		case phaseActiveElsewhere:
			return c.show(ctx, st, tab, term)
		case phaseActiveFocused:
			retry, err := c.hide(ctx, st, tab, term)
			if err != nil {
				return err
			}
			if !retry {
				return nil
			}
			c.Metrics.RecordRetry(ctx)
			log.Info("retrying toggle after invoker reset")
		}
	}
	return fmt.Errorf("toggle for tab %d did not settle after %d attempts", tab, maxAttempts)
}

// resolve derives the current phase, repairing a stale terminal pane
// reference (pane gone, or pane moved to another tab) on the way.
func (c *Controller) resolve(ctx context.Context, tab int, st *model.TabState, invoker model.Pane) (model.Pane, tabPhase) {
	if st.PaneID == model.PaneNone {
		return model.Pane{}, phaseInactive
	}

	term, err := c.Mux.PaneByID(ctx, st.PaneID)
	if err != nil {
		logx.WithTab(ctx, tab).Info("terminal pane no longer exists, resetting",
			"pane", st.PaneID)
		c.reset(ctx, st, tab)
		c.Metrics.RecordStaleReset(ctx, "pane_gone")
		return model.Pane{}, phaseInactive
	}
	if term.Window != tab {
		logx.WithTab(ctx, tab).Info("terminal pane moved to another tab, resetting",
			"pane", st.PaneID, "found_tab", term.Window)
		c.reset(ctx, st, tab)
		c.Metrics.RecordStaleReset(ctx, "wrong_tab")
		return model.Pane{}, phaseInactive
	}

	if term.ID == invoker.ID {
		return term, phaseActiveFocused
	}
	return term, phaseActiveElsewhere
}

// create splits the invoker pane and commits the new pane as the tab's
// terminal pane. Pane creation is the one non-idempotent side effect, so it
// happens at most once per inactive transition.
func (c *Controller) create(ctx context.Context, st *model.TabState, tab int, invoker model.Pane) error {
	log := logx.WithTab(ctx, tab)

	newPane, err := c.Mux.SplitPane(ctx, invoker, c.Policy.Direction, c.Policy.SizePercent)
	if err != nil {
		return fmt.Errorf("split pane in tab %d: %w", tab, err)
	}

	if newPane.Window != tab {
		// The host put the new pane somewhere else. Not retried: the user
		// sees no pane change and re-triggers manually.
		log.Error("new pane reports a different tab, aborting",
			"pane", newPane.ID, "found_tab", newPane.Window)
		c.reset(ctx, st, tab)
		c.Metrics.RecordTopologyInconsistency(ctx)
		return nil
	}

	st.PaneID = newPane.ID
	if st.InvokerID == model.PaneNone {
		st.InvokerID = invoker.ID
	}
	c.writeSnapshot(ctx, tab, newPane.ID)

	if c.Policy.AutoZoomTerminal {
		if err := c.Mux.SetZoom(ctx, tab, true); err != nil {
			log.Warn("zoom after create failed", "err", err)
		}
	}

	c.Metrics.RecordToggle(ctx, "create")
	log.Info("terminal pane created", "pane", newPane.ID, "invoker", st.InvokerID)
	return nil
}

// show focuses the existing terminal pane and restores zoom per policy.
func (c *Controller) show(ctx context.Context, st *model.TabState, tab int, term model.Pane) error {
	log := logx.WithTab(ctx, tab)

	if err := c.Mux.SetZoom(ctx, tab, false); err != nil {
		log.Warn("unzoom before show failed", "err", err)
	}
	if err := c.Mux.ActivatePane(ctx, term); err != nil {
		return fmt.Errorf("activate terminal pane %d: %w", term.ID, err)
	}
	if (st.Zoomed && c.Policy.RememberZoomed) || c.Policy.AutoZoomTerminal {
		if err := c.Mux.SetZoom(ctx, tab, true); err != nil {
			log.Warn("zoom after show failed", "err", err)
		}
	}

	c.writeSnapshot(ctx, tab, term.ID)
	c.Metrics.RecordToggle(ctx, "show")
	log.Info("terminal pane shown", "pane", term.ID)
	return nil
}

// hide returns focus to the invoker pane. When the invoker reference is
// broken the tab is reset and retry=true asks the caller to run one more
// transition, which may create a fresh terminal pane.
//
// The snapshot file is deliberately left in place on hide: only a stale
// reset clears the "active" marker.
func (c *Controller) hide(ctx context.Context, st *model.TabState, tab int, term model.Pane) (retry bool, err error) {
	log := logx.WithTab(ctx, tab)

	inv, lookErr := c.Mux.PaneByID(ctx, st.InvokerID)
	if lookErr != nil || inv.Window != tab {
		log.Info("invoker pane no longer usable, resetting", "invoker", st.InvokerID)
		c.reset(ctx, st, tab)
		st.InvokerID = model.PaneNone
		c.Metrics.RecordStaleReset(ctx, "invoker_gone")
		return true, nil
	}

	if c.Policy.RememberZoomed {
		st.Zoomed = c.terminalZoomed(ctx, tab, st.PaneID)
	}

	if err := c.Mux.SetZoom(ctx, tab, false); err != nil {
		log.Warn("unzoom before hide failed", "err", err)
	}
	if err := c.Mux.ActivatePane(ctx, inv); err != nil {
		return false, fmt.Errorf("activate invoker pane %d: %w", inv.ID, err)
	}
	if c.Policy.AutoZoomInvoker {
		if err := c.Mux.SetZoom(ctx, tab, true); err != nil {
			log.Warn("zoom invoker failed", "err", err)
		}
	}

	c.Metrics.RecordToggle(ctx, "hide")
	log.Info("terminal pane hidden", "pane", term.ID, "invoker", inv.ID)
	return false, nil
}

// terminalZoomed reads the terminal pane's current zoom flag by enumerating
// the tab's panes and matching by id. Enumeration failure means "not
// zoomed" — zoom memory is best-effort.
func (c *Controller) terminalZoomed(ctx context.Context, tab, pane int) bool {
	panes, err := c.Mux.ListPanes(ctx, tab)
	if err != nil {
		logx.WithTab(ctx, tab).Warn("list panes for zoom state failed", "err", err)
		return false
	}
	for _, p := range panes {
		if p.ID == pane {
			return p.Zoomed
		}
	}
	return false
}

// reset drops the terminal pane reference and clears the on-disk snapshot.
func (c *Controller) reset(ctx context.Context, st *model.TabState, tab int) {
	st.PaneID = model.PaneNone
	if err := c.Snapshots.Clear(tab); err != nil {
		logx.WithTab(ctx, tab).Warn("snapshot clear failed", "err", err)
		c.Metrics.RecordSnapshotError(ctx, "clear")
	}
}

// writeSnapshot records the active terminal pane for companion tools.
// Failures are logged and never affect the transition.
func (c *Controller) writeSnapshot(ctx context.Context, tab, pane int) {
	if err := c.Snapshots.Write(tab, pane); err != nil {
		logx.WithTab(ctx, tab).Warn("snapshot write failed", "err", err)
		c.Metrics.RecordSnapshotError(ctx, "write")
	}
}

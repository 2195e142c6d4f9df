// Package status derives per-tab toggle pane rows for the status and watch
// surfaces.
//
// It works from the on-disk snapshots (the advisory output of the daemon)
// revalidated against the live topology, so it can run in a different
// process than the daemon that owns the registry.
package status

import (
	"context"
	"time"

	"github.com/zsh-sage/toggle-term/internal/mux"
	"github.com/zsh-sage/toggle-term/internal/snapshot"
)

const (
	// StateFocused: the terminal pane exists and is its tab's active pane.
	StateFocused = "focused"
	// StateShown: the terminal pane exists in its tab but is not focused.
	StateShown = "shown"
	// StateStale: the snapshot names a pane that is gone or moved tabs;
	// the daemon will repair this on the next toggle.
	StateStale = "stale"
)

// Row is one tab's toggle pane status.
type Row struct {
	TabID   int
	TabName string
	PaneID  int
	State   string
	Since   time.Time
}

// Collect loads all snapshots and classifies each against the live
// topology. Tabs without a snapshot have no terminal pane and produce no
// row.
func Collect(ctx context.Context, m mux.Multiplexer, snaps *snapshot.Store) ([]Row, error) {
	states, err := snaps.List()
	if err != nil {
		return nil, err
	}

	names := make(map[int]string)
	if windows, err := m.ListWindows(ctx); err == nil {
		for _, w := range windows {
			names[w.ID] = w.Name
		}
	}

	rows := make([]Row, 0, len(states))
	for _, st := range states {
		row := Row{
			TabID:   st.TabID,
			TabName: names[st.TabID],
			PaneID:  st.PaneID,
			Since:   time.Unix(st.Timestamp, 0),
		}
		row.State = classify(ctx, m, st)
		rows = append(rows, row)
	}
	return rows, nil
}

func classify(ctx context.Context, m mux.Multiplexer, st snapshot.State) string {
	p, err := m.PaneByID(ctx, st.PaneID)
	if err != nil || p.Window != st.TabID {
		return StateStale
	}
	if p.Active {
		return StateFocused
	}
	return StateShown
}

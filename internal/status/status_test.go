package status

import (
	"context"
	"fmt"
	"testing"

	"github.com/zsh-sage/toggle-term/internal/model"
	"github.com/zsh-sage/toggle-term/internal/mux"
	"github.com/zsh-sage/toggle-term/internal/snapshot"
)

type fakeMux struct {
	panes   map[int]model.Pane
	windows []model.Window
}

func (f *fakeMux) Name() string { return "fake" }

func (f *fakeMux) CurrentPane(ctx context.Context) (model.Pane, error) {
	return model.Pane{}, fmt.Errorf("not supported")
}

func (f *fakeMux) PaneByID(ctx context.Context, id int) (model.Pane, error) {
	p, ok := f.panes[id]
	if !ok {
		return model.Pane{}, fmt.Errorf("%w: %%%d", mux.ErrPaneNotFound, id)
	}
	return p, nil
}

func (f *fakeMux) SplitPane(ctx context.Context, from model.Pane, dir model.Direction, percent int) (model.Pane, error) {
	return model.Pane{}, fmt.Errorf("not supported")
}

func (f *fakeMux) ActivatePane(ctx context.Context, p model.Pane) error { return nil }

func (f *fakeMux) SetZoom(ctx context.Context, window int, zoomed bool) error { return nil }

func (f *fakeMux) ListPanes(ctx context.Context, window int) ([]model.Pane, error) {
	return nil, nil
}

func (f *fakeMux) ListWindows(ctx context.Context) ([]model.Window, error) {
	return f.windows, nil
}

func TestCollectClassifiesRows(t *testing.T) {
	ctx := context.Background()
	snaps := snapshot.NewStore(t.TempDir())

	// Tab 1: terminal pane focused. Tab 2: present but unfocused.
	// Tab 3: pane gone. Tab 4: pane moved to another tab.
	for tab, pane := range map[int]int{1: 10, 2: 20, 3: 30, 4: 40} {
		if err := snaps.Write(tab, pane); err != nil {
			t.Fatal(err)
		}
	}

	f := &fakeMux{
		panes: map[int]model.Pane{
			10: {ID: 10, Window: 1, Active: true},
			20: {ID: 20, Window: 2, Active: false},
			40: {ID: 40, Window: 9, Active: true},
		},
		windows: []model.Window{
			{ID: 1, Name: "code"},
			{ID: 2, Name: "logs"},
		},
	}

	rows, err := Collect(ctx, f, snaps)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	byTab := make(map[int]Row)
	for _, r := range rows {
		byTab[r.TabID] = r
	}

	if got := byTab[1].State; got != StateFocused {
		t.Errorf("tab 1: got %q, want %q", got, StateFocused)
	}
	if got := byTab[1].TabName; got != "code" {
		t.Errorf("tab 1 name: got %q, want %q", got, "code")
	}
	if got := byTab[2].State; got != StateShown {
		t.Errorf("tab 2: got %q, want %q", got, StateShown)
	}
	if got := byTab[3].State; got != StateStale {
		t.Errorf("tab 3: got %q, want %q", got, StateStale)
	}
	if got := byTab[4].State; got != StateStale {
		t.Errorf("tab 4 (cross-tab): got %q, want %q", got, StateStale)
	}
}

func TestCollectEmptyDir(t *testing.T) {
	snaps := snapshot.NewStore(t.TempDir())
	rows, err := Collect(context.Background(), &fakeMux{}, snaps)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

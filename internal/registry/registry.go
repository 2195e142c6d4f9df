// Package registry holds the process-wide per-tab toggle state.
//
// Entries are created lazily on first toggle per tab and never removed:
// window ids are host-assigned and not reused while the host server lives,
// so the leak is bounded to one entry per tab ever toggled. Stale pane
// references inside an entry are repaired opportunistically by the toggle
// controller, not pruned here.
package registry

import (
	"sort"
	"sync"

	"github.com/zsh-sage/toggle-term/internal/model"
)

// Registry maps tab (window) ids to their toggle state.
// Safe for concurrent use: toggles run serially on the trigger thread, but
// status surfaces read from other goroutines.
type Registry struct {
	mu   sync.RWMutex
	tabs map[int]*model.TabState
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{tabs: make(map[int]*model.TabState)}
}

// GetOrInit returns the state for a tab, creating the canonical inactive
// entry (no pane, no invoker, not zoomed) on first use.
func (r *Registry) GetOrInit(tab int) *model.TabState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.tabs[tab]
	if !ok {
		st = &model.TabState{PaneID: model.PaneNone, InvokerID: model.PaneNone}
		r.tabs[tab] = st
	}
	return st
}

// Snapshot returns a copy of all tab states keyed by tab id, in tab order.
// The copies are detached: mutating them does not affect the registry.
func (r *Registry) Snapshot() map[int]model.TabState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int]model.TabState, len(r.tabs))
	for tab, st := range r.tabs {
		out[tab] = *st
	}
	return out
}

// Tabs returns the ids of all tabs with an entry, sorted.
func (r *Registry) Tabs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]int, 0, len(r.tabs))
	for tab := range r.tabs {
		out = append(out, tab)
	}
	sort.Ints(out)
	return out
}

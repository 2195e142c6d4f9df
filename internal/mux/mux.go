// Package mux provides an abstraction over terminal multiplexers (tmux,
// zellij).
//
// This package is pure transport: it reports the live pane/window topology
// and issues single layout mutations. It holds no toggle state of its own —
// all per-tab state lives in the registry, and all decisions in the toggle
// controller.
package mux

import (
	"context"
	"errors"

	"github.com/zsh-sage/toggle-term/internal/model"
)

// ErrPaneNotFound is returned by pane lookups when the pane no longer
// exists. Callers treat this as a normal branch (pane gone), not a failure.
var ErrPaneNotFound = errors.New("pane not found")

// Multiplexer abstracts terminal multiplexer operations.
// Implementations exist for tmux and (future) zellij.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux", "zellij").
	Name() string

	// CurrentPane returns the pane this process is running in.
	CurrentPane(ctx context.Context) (model.Pane, error)

	// PaneByID resolves a pane id against the live topology.
	// Returns ErrPaneNotFound when the pane no longer exists.
	PaneByID(ctx context.Context, id int) (model.Pane, error)

	// SplitPane splits the given pane and returns the newly created pane,
	// which becomes the active pane of its window.
	SplitPane(ctx context.Context, from model.Pane, dir model.Direction, percent int) (model.Pane, error)

	// ActivatePane focuses the given pane, switching windows if needed.
	ActivatePane(ctx context.Context, p model.Pane) error

	// SetZoom puts the window's active pane into (or out of) full-size
	// display. Setting the already-current state is a no-op.
	SetZoom(ctx context.Context, window int, zoomed bool) error

	// ListPanes returns all panes of a window with their zoom flags.
	ListPanes(ctx context.Context, window int) ([]model.Pane, error)

	// ListWindows returns all windows across all sessions.
	ListWindows(ctx context.Context) ([]model.Window, error)
}

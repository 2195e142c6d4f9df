package model

import (
	"fmt"
	"strings"
)

// PaneNone is the sentinel for "no pane tracked". Multiplexer pane ids
// start at 0, so the sentinel must be negative.
const PaneNone = -1

// Pane represents a terminal multiplexer pane at the moment it was looked up.
// Pane and window ids are host-assigned and may stop resolving at any time;
// holders must re-resolve through the multiplexer before acting on one.
type Pane struct {
	// ID is the host pane id (tmux "%N" without the sigil).
	ID int `json:"id"`
	// Window is the id of the window (tab) owning this pane.
	Window int `json:"window"`
	// Active reports whether this pane is the active pane of its window.
	Active bool `json:"active"`
	// Zoomed reports whether this pane is currently displayed full-size.
	Zoomed bool `json:"zoomed"`
}

// Window represents a terminal multiplexer window (a "tab").
type Window struct {
	// ID is the host window id (tmux "@N" without the sigil).
	ID int `json:"id"`
	// Name is the user-visible window name.
	Name string `json:"name"`
	// Panes is the number of panes in the window.
	Panes int `json:"panes"`
}

// TabState is the per-tab toggle state tracked by the registry.
// PaneID and InvokerID are hints: the panes they name may have been
// destroyed externally, so every read is validated against the live
// topology before use.
type TabState struct {
	// PaneID is the managed terminal pane for this tab, or PaneNone.
	PaneID int `json:"pane_id"`
	// InvokerID is the pane to restore focus to when hiding the
	// terminal pane, or PaneNone.
	InvokerID int `json:"invoker_id"`
	// Zoomed records whether the terminal pane was zoomed the last time
	// it was hidden.
	Zoomed bool `json:"zoomed"`
}

// Direction is the split direction for the terminal pane relative to the
// invoker pane.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection parses a direction name, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionUp:
		return DirectionUp, nil
	case DirectionDown:
		return DirectionDown, nil
	case DirectionLeft:
		return DirectionLeft, nil
	case DirectionRight:
		return DirectionRight, nil
	default:
		return "", fmt.Errorf("unknown direction %q (supported: up, down, left, right)", s)
	}
}

// Horizontal reports whether the split divides the pane left/right.
func (d Direction) Horizontal() bool {
	return d == DirectionLeft || d == DirectionRight
}

// Before reports whether the new pane is placed before (above or left of)
// the invoker pane.
func (d Direction) Before() bool {
	return d == DirectionUp || d == DirectionLeft
}

// Package trigger carries toggle triggers from the key-binding client to
// the daemon over a unix datagram socket.
//
// The daemon is the single owner of the state registry; clients only
// describe which pane fired the binding. Datagrams keep the client a
// fire-and-forget one-shot: no connection state, no reply.
package trigger

import (
	"fmt"
	"time"
)

// Trigger is one toggle request: the pane the key binding fired in and the
// tab that pane reported at send time.
type Trigger struct {
	// ID is a correlation id assigned by the client, echoed in daemon logs.
	ID string `json:"id,omitempty"`
	// PaneID is the invoking pane.
	PaneID int `json:"pane_id"`
	// TabID is the tab (window) owning the invoking pane.
	TabID int `json:"tab_id"`
	// TS is the client-side send time.
	TS time.Time `json:"ts"`
}

func (t Trigger) Validate() error {
	if t.PaneID < 0 {
		return fmt.Errorf("invalid pane_id %d", t.PaneID)
	}
	if t.TabID < 0 {
		return fmt.Errorf("invalid tab_id %d", t.TabID)
	}
	if t.TS.IsZero() {
		return fmt.Errorf("ts is required")
	}
	return nil
}

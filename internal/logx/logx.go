// Package logx binds loggers to toggle-term domain identifiers.
package logx

import (
	"context"

	"pkt.systems/pslog"

	"github.com/zsh-sage/toggle-term/internal/model"
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithTab annotates the context logger with the tab id.
func WithTab(ctx context.Context, tab int) pslog.Logger {
	return pslog.Ctx(ctx).With("tab", tab)
}

// WithPane annotates the logger with a pane id when one is tracked.
func WithPane(log pslog.Logger, key string, pane int) pslog.Logger {
	if pane == model.PaneNone {
		return log
	}
	return log.With(key, pane)
}

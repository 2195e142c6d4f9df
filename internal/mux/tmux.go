package mux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/zsh-sage/toggle-term/internal/model"
)

// paneFormat is the tmux format string for a single pane line:
// pane id, owning window id, active flag, window zoomed flag.
const paneFormat = "#{pane_id}\t#{window_id}\t#{pane_active}\t#{window_zoomed_flag}"

// Tmux implements the Multiplexer interface for tmux.
//
// Pane ids ("%N") and window ids ("@N") are assigned by the tmux server and
// never reused while it lives, which is what makes stale-reference detection
// by id safe.
type Tmux struct{}

// NewTmux creates a new tmux multiplexer.
func NewTmux() *Tmux {
	return &Tmux{}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// CurrentPane resolves the pane this process runs in via $TMUX_PANE.
func (t *Tmux) CurrentPane(ctx context.Context) (model.Pane, error) {
	paneID := os.Getenv("TMUX_PANE")
	if paneID == "" {
		return model.Pane{}, fmt.Errorf("not running inside tmux ($TMUX_PANE is unset)")
	}
	out, err := t.run(ctx, "display-message", "-t", paneID, "-p", paneFormat)
	if err != nil {
		return model.Pane{}, fmt.Errorf("resolve current pane %s: %w", paneID, err)
	}
	return parsePaneLine(strings.TrimSpace(out))
}

// PaneByID resolves a pane id anywhere on the server.
// A failed lookup maps to ErrPaneNotFound: tmux exits non-zero for panes
// that no longer exist, and destroyed panes are an expected condition here.
func (t *Tmux) PaneByID(ctx context.Context, id int) (model.Pane, error) {
	out, err := t.run(ctx, "display-message", "-t", paneTarget(id), "-p", paneFormat)
	if err != nil {
		return model.Pane{}, fmt.Errorf("%w: %s", ErrPaneNotFound, paneTarget(id))
	}
	p, perr := parsePaneLine(strings.TrimSpace(out))
	if perr != nil {
		return model.Pane{}, fmt.Errorf("%w: %s", ErrPaneNotFound, paneTarget(id))
	}
	return p, nil
}

// SplitPane splits the given pane and returns the new pane.
// tmux makes the new pane the active pane of its window.
func (t *Tmux) SplitPane(ctx context.Context, from model.Pane, dir model.Direction, percent int) (model.Pane, error) {
	args := splitArgs(from, dir, percent)
	out, err := t.run(ctx, args...)
	if err != nil {
		return model.Pane{}, fmt.Errorf("tmux split-window: %w", err)
	}
	return parsePaneLine(strings.TrimSpace(out))
}

// ActivatePane focuses the pane, selecting its window first so the pane
// selection lands in the right window.
func (t *Tmux) ActivatePane(ctx context.Context, p model.Pane) error {
	if _, err := t.run(ctx, "select-window", "-t", windowTarget(p.Window)); err != nil {
		return fmt.Errorf("tmux select-window %s: %w", windowTarget(p.Window), err)
	}
	if _, err := t.run(ctx, "select-pane", "-t", paneTarget(p.ID)); err != nil {
		return fmt.Errorf("tmux select-pane %s: %w", paneTarget(p.ID), err)
	}
	return nil
}

// SetZoom sets the window's zoom state. tmux only exposes a toggle
// (resize-pane -Z), so the current flag is read first and the toggle issued
// only on mismatch.
func (t *Tmux) SetZoom(ctx context.Context, window int, zoomed bool) error {
	out, err := t.run(ctx, "display-message", "-t", windowTarget(window), "-p", "#{window_zoomed_flag}")
	if err != nil {
		return fmt.Errorf("tmux query zoom flag %s: %w", windowTarget(window), err)
	}
	current := strings.TrimSpace(out) == "1"
	if current == zoomed {
		return nil
	}
	if _, err := t.run(ctx, "resize-pane", "-Z", "-t", windowTarget(window)); err != nil {
		return fmt.Errorf("tmux resize-pane -Z %s: %w", windowTarget(window), err)
	}
	return nil
}

// ListPanes returns all panes of a window with their zoom flags.
func (t *Tmux) ListPanes(ctx context.Context, window int) ([]model.Pane, error) {
	out, err := t.run(ctx, "list-panes", "-t", windowTarget(window), "-F", paneFormat)
	if err != nil {
		return nil, fmt.Errorf("tmux list-panes %s: %w", windowTarget(window), err)
	}

	var panes []model.Pane
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		p, err := parsePaneLine(line)
		if err != nil {
			continue
		}
		panes = append(panes, p)
	}
	return panes, nil
}

// ListWindows returns all windows across all sessions.
func (t *Tmux) ListWindows(ctx context.Context) ([]model.Window, error) {
	out, err := t.run(ctx, "list-windows", "-a", "-F", "#{window_id}\t#{window_name}\t#{window_panes}")
	if err != nil {
		return nil, fmt.Errorf("tmux list-windows: %w", err)
	}

	var windows []model.Window
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		id, err := parseID(parts[0], '@')
		if err != nil {
			continue
		}
		panes, _ := strconv.Atoi(parts[2])
		windows = append(windows, model.Window{ID: id, Name: parts[1], Panes: panes})
	}
	return windows, nil
}

// run executes a tmux command and returns its stdout.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}

// splitArgs builds the split-window argument list for a direction and size.
// Up/Left use -b to place the new pane before the invoker.
func splitArgs(from model.Pane, dir model.Direction, percent int) []string {
	args := []string{"split-window", "-t", paneTarget(from.ID)}
	if dir.Horizontal() {
		args = append(args, "-h")
	} else {
		args = append(args, "-v")
	}
	if dir.Before() {
		args = append(args, "-b")
	}
	args = append(args, "-l", fmt.Sprintf("%d%%", percent), "-P", "-F", paneFormat)
	return args
}

// parsePaneLine parses one paneFormat line into a Pane.
// A pane is considered zoomed when its window is zoomed and it is the
// active pane (tmux zooms exactly the active pane).
func parsePaneLine(line string) (model.Pane, error) {
	parts := strings.SplitN(line, "\t", 4)
	if len(parts) != 4 {
		return model.Pane{}, fmt.Errorf("invalid pane line %q", line)
	}
	id, err := parseID(parts[0], '%')
	if err != nil {
		return model.Pane{}, fmt.Errorf("invalid pane id in %q: %w", line, err)
	}
	window, err := parseID(parts[1], '@')
	if err != nil {
		return model.Pane{}, fmt.Errorf("invalid window id in %q: %w", line, err)
	}
	active := parts[2] == "1"
	zoomedWindow := parts[3] == "1"
	return model.Pane{
		ID:     id,
		Window: window,
		Active: active,
		Zoomed: zoomedWindow && active,
	}, nil
}

// parseID strips the tmux sigil ('%' for panes, '@' for windows) and
// parses the numeric id.
func parseID(s string, sigil byte) (int, error) {
	if len(s) < 2 || s[0] != sigil {
		return 0, fmt.Errorf("missing %q sigil in %q", string(sigil), s)
	}
	return strconv.Atoi(s[1:])
}

func paneTarget(id int) string {
	return fmt.Sprintf("%%%d", id)
}

func windowTarget(id int) string {
	return fmt.Sprintf("@%d", id)
}

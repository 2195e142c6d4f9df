// Package watch renders a live view of per-tab toggle pane status.
package watch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zsh-sage/toggle-term/internal/mux"
	"github.com/zsh-sage/toggle-term/internal/snapshot"
	"github.com/zsh-sage/toggle-term/internal/status"
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	shownStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	staleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// TUI is the interactive watch view.
type TUI struct {
	Mux             mux.Multiplexer
	Snapshots       *snapshot.Store
	RefreshInterval time.Duration
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	interval := t.RefreshInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	filter := textinput.New()
	filter.Placeholder = "filter by tab name or id"
	filter.CharLimit = 64

	m := uiModel{
		ctx:      ctx,
		tui:      t,
		interval: interval,
		filter:   filter,
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type rowsMsg struct {
	rows []status.Row
	err  error
}

type tickMsg time.Time

type uiModel struct {
	ctx      context.Context
	tui      *TUI
	interval time.Duration

	rows      []status.Row
	err       error
	filter    textinput.Model
	filtering bool
	width     int
}

func (m uiModel) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

func (m uiModel) refresh() tea.Cmd {
	return func() tea.Msg {
		rows, err := status.Collect(m.ctx, m.tui.Mux, m.tui.Snapshots)
		return rowsMsg{rows: rows, err: err}
	}
}

func (m uiModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case rowsMsg:
		m.rows = msg.rows
		m.err = msg.err
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "esc":
				m.filtering = false
				m.filter.SetValue("")
				m.filter.Blur()
				return m, nil
			case "enter":
				m.filtering = false
				m.filter.Blur()
				return m, nil
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink
		case "r":
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m uiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("toggle-term — tab status"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	rows := filterRows(m.rows, m.filter.Value())
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("no toggle panes"))
		b.WriteString("\n")
	} else {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s %-16s %-8s %-8s %s",
			"TAB", "NAME", "PANE", "STATE", "SINCE")))
		b.WriteString("\n")
		for _, r := range rows {
			b.WriteString(renderRow(r))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("q quit · r refresh · / filter"))
	b.WriteString("\n")
	return b.String()
}

func renderRow(r status.Row) string {
	line := fmt.Sprintf("%-6d %-16s %-8d %-8s %s",
		r.TabID, truncate(r.TabName, 16), r.PaneID, r.State,
		r.Since.Format("15:04:05"))
	switch r.State {
	case status.StateFocused:
		return focusedStyle.Render(line)
	case status.StateShown:
		return shownStyle.Render(line)
	case status.StateStale:
		return staleStyle.Render(line)
	default:
		return line
	}
}

// filterRows keeps rows whose tab name or id contains the query.
func filterRows(rows []status.Row, query string) []status.Row {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rows
	}
	var out []status.Row
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.TabName), query) ||
			strings.Contains(strconv.Itoa(r.TabID), query) {
			out = append(out, r)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

// Package snapshot persists the active terminal pane per tab to disk.
//
// One JSON file per tab, written when a terminal pane becomes active and
// deleted when the tracked pane turns out to be stale. The files are
// advisory output for companion tools (e.g. an editor plugin discovering
// the current terminal pane of a tab); the toggle controller never reads
// them back.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// State is the on-disk snapshot for one tab.
type State struct {
	PaneID    int   `json:"pane_id"`
	TabID     int   `json:"tab_id"`
	Active    bool  `json:"active"`
	Timestamp int64 `json:"timestamp"`
}

// Store writes and removes per-tab snapshot files under a directory.
// All operations are best-effort from the caller's point of view: the
// toggle controller logs failures and moves on.
type Store struct {
	dir string

	// now is swappable for tests.
	now func() time.Time
}

// NewStore creates a store rooted at dir. The directory is created on
// first write, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the deterministic snapshot path for a tab.
func (s *Store) Path(tab int) string {
	return filepath.Join(s.dir, fmt.Sprintf("tab-%d.json", tab))
}

// Write records pane as the active terminal pane for tab.
func (s *Store) Write(tab, pane int) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	st := State{
		PaneID:    pane,
		TabID:     tab,
		Active:    true,
		Timestamp: s.now().Unix(),
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode snapshot for tab %d: %w", tab, err)
	}
	if err := os.WriteFile(s.Path(tab), data, 0o600); err != nil {
		return fmt.Errorf("write snapshot for tab %d: %w", tab, err)
	}
	return nil
}

// Clear removes the snapshot for a tab. A missing file is not an error.
func (s *Store) Clear(tab int) error {
	if err := os.Remove(s.Path(tab)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot for tab %d: %w", tab, err)
	}
	return nil
}

// Read loads the snapshot for a tab. Returns os.ErrNotExist (wrapped) when
// no snapshot is present.
func (s *Store) Read(tab int) (State, error) {
	data, err := os.ReadFile(s.Path(tab))
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decode snapshot for tab %d: %w", tab, err)
	}
	return st, nil
}

// List loads all snapshots in the directory, sorted by tab id.
// Unreadable or malformed files are skipped.
func (s *Store) List() ([]State, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	var states []State
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "tab-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		tab, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "tab-"), ".json"))
		if err != nil {
			continue
		}
		st, err := s.Read(tab)
		if err != nil {
			continue
		}
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].TabID < states[j].TabID })
	return states, nil
}

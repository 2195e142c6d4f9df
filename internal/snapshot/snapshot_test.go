package snapshot

import (
	"encoding/json"
	"os"
	"testing"
	"time"
)

func TestWriteThenRead(t *testing.T) {
	s := NewStore(t.TempDir())
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	if err := s.Write(7, 42); err != nil {
		t.Fatalf("write: %v", err)
	}

	st, err := s.Read(7)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if st.PaneID != 42 || st.TabID != 7 || !st.Active {
		t.Errorf("got %+v, want pane 42 tab 7 active", st)
	}
	if st.Timestamp != 1700000000 {
		t.Errorf("Timestamp: got %d, want 1700000000", st.Timestamp)
	}
}

func TestWriteFileShape(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Write(7, 42); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(s.Path(7))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if raw["pane_id"].(float64) != 42 {
		t.Errorf("pane_id: got %v, want 42", raw["pane_id"])
	}
	if raw["tab_id"].(float64) != 7 {
		t.Errorf("tab_id: got %v, want 7", raw["tab_id"])
	}
	if raw["active"] != true {
		t.Errorf("active: got %v, want true", raw["active"])
	}
	if _, ok := raw["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestClearRemovesFile(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Write(7, 42); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Clear(7); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(s.Path(7)); !os.IsNotExist(err) {
		t.Fatalf("expected snapshot file gone, stat err = %v", err)
	}
}

func TestClearMissingIsNoError(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Clear(99); err != nil {
		t.Fatalf("clear of missing snapshot: %v", err)
	}
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/state"
	s := NewStore(dir)
	if err := s.Write(1, 2); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected dir created: %v", err)
	}
}

func TestListSortedSkipsJunk(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Write(9, 90); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(2, 20); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Dir()+"/tab-bad.json", []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Dir()+"/unrelated.txt", []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	states, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(states))
	}
	if states[0].TabID != 2 || states[1].TabID != 9 {
		t.Errorf("expected tab order [2 9], got [%d %d]", states[0].TabID, states[1].TabID)
	}
}

func TestListMissingDir(t *testing.T) {
	s := NewStore(t.TempDir() + "/does-not-exist")
	states, err := s.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(states) != 0 {
		t.Fatalf("expected no snapshots, got %d", len(states))
	}
}

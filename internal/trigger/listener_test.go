package trigger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestListener_StartBindsSocket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	socketPath := shortSocketPath(t)
	l := NewListener(func(context.Context, Trigger) {}, socketPath)

	if err := l.Start(ctx); err != nil {
		t.Fatalf("start listener: %v", err)
	}

	if _, err := os.Stat(socketPath); err != nil {
		t.Fatalf("expected socket at %s: %v", socketPath, err)
	}
}

func TestListener_DeliversValidTrigger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []Trigger
	socketPath := shortSocketPath(t)
	l := NewListener(func(_ context.Context, trig Trigger) {
		mu.Lock()
		got = append(got, trig)
		mu.Unlock()
	}, socketPath)
	if err := l.Start(ctx); err != nil {
		t.Fatalf("start listener: %v", err)
	}

	err := Send(socketPath, Trigger{ID: "t-1", PaneID: 4, TabID: 2, TS: time.Now().UTC()})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	waitFor(t, 1*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	})

	mu.Lock()
	defer mu.Unlock()
	if got[0].PaneID != 4 || got[0].TabID != 2 || got[0].ID != "t-1" {
		t.Fatalf("unexpected trigger %+v", got[0])
	}
}

func TestListener_IgnoresMalformedPayload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	count := 0
	socketPath := shortSocketPath(t)
	l := NewListener(func(context.Context, Trigger) {
		mu.Lock()
		count++
		mu.Unlock()
	}, socketPath)
	if err := l.Start(ctx); err != nil {
		t.Fatalf("start listener: %v", err)
	}

	if err := sendRaw(socketPath, []byte(`not-json`)); err != nil {
		t.Fatalf("send raw: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Fatalf("expected no deliveries for malformed payload, got %d", count)
	}
}

func TestListener_RejectsInvalidTrigger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	count := 0
	socketPath := shortSocketPath(t)
	l := NewListener(func(context.Context, Trigger) {
		mu.Lock()
		count++
		mu.Unlock()
	}, socketPath)
	if err := l.Start(ctx); err != nil {
		t.Fatalf("start listener: %v", err)
	}

	// Valid JSON, invalid trigger (negative pane id).
	if err := sendRaw(socketPath, []byte(`{"pane_id":-1,"tab_id":0,"ts":"2026-08-30T12:00:00Z"}`)); err != nil {
		t.Fatalf("send raw: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Fatalf("expected no deliveries for invalid trigger, got %d", count)
	}
}

func TestSend_FailsWithoutListener(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "nobody.sock")
	err := Send(socketPath, Trigger{PaneID: 1, TabID: 1, TS: time.Now().UTC()})
	if err == nil {
		t.Fatal("expected error sending to a socket nobody listens on")
	}
}

func sendRaw(socketPath string, payload []byte) error {
	// Reuse the client's dial path but bypass validation/encoding.
	conn, err := dialRaw(socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Write(payload)
	return err
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func shortSocketPath(t *testing.T) string {
	t.Helper()
	base := filepath.Join(os.TempDir(), "tt-trigger")
	if err := os.MkdirAll(base, 0o700); err != nil {
		t.Fatalf("mkdir temp base: %v", err)
	}
	p := filepath.Join(base, fmt.Sprintf("%d-%d.sock", time.Now().UnixNano(), os.Getpid()))
	t.Cleanup(func() {
		_ = os.Remove(p)
	})
	return p
}

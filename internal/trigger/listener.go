package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/zsh-sage/toggle-term/internal/logx"
)

const defaultMaxPayloadBytes = 4 * 1024

// Handler consumes one validated trigger. The listener invokes it serially
// from its read loop, so handlers see triggers one at a time — this is what
// gives toggle transitions their single logical thread of control.
type Handler func(ctx context.Context, t Trigger)

// Listener receives trigger datagrams on a unix socket.
type Listener struct {
	handler Handler
	path    string

	MaxPayloadBytes int

	mu     sync.Mutex
	conn   *net.UnixConn
	closed bool
}

func NewListener(handler Handler, socketPath string) *Listener {
	return &Listener{
		handler:         handler,
		path:            socketPath,
		MaxPayloadBytes: defaultMaxPayloadBytes,
	}
}

func (l *Listener) SocketPath() string {
	return l.path
}

// Start binds the socket and launches the read loop. The socket directory
// is created with owner-only permissions; a stale socket from a previous
// run is removed.
func (l *Listener) Start(ctx context.Context) error {
	if l.handler == nil {
		return fmt.Errorf("handler is required")
	}
	if l.path == "" {
		return fmt.Errorf("socket path is required")
	}
	if l.MaxPayloadBytes <= 0 {
		l.MaxPayloadBytes = defaultMaxPayloadBytes
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	if err := os.Chmod(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("chmod socket dir: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	addr, err := net.ResolveUnixAddr("unixgram", l.path)
	if err != nil {
		return fmt.Errorf("resolve unix addr: %w", err)
	}
	conn, err := net.ListenUnixgram("unixgram", addr)
	if err != nil {
		return fmt.Errorf("listen unixgram: %w", err)
	}
	if err := os.Chmod(l.path, 0o600); err != nil {
		_ = conn.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}

	l.mu.Lock()
	l.conn = conn
	l.closed = false
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.close()
	}()

	go l.readLoop(ctx)

	return nil
}

func (l *Listener) readLoop(ctx context.Context) {
	log := logx.Ctx(ctx)
	buf := make([]byte, l.MaxPayloadBytes)
	for {
		l.mu.Lock()
		conn := l.conn
		l.mu.Unlock()
		if conn == nil {
			return
		}

		n, _, err := conn.ReadFromUnix(buf)
		if err != nil {
			if l.isClosed() {
				return
			}
			continue
		}

		if n <= 0 || n >= l.MaxPayloadBytes {
			log.Warn("trigger payload size out of bounds", "bytes", n)
			continue
		}

		var t Trigger
		if err := json.Unmarshal(buf[:n], &t); err != nil {
			log.Warn("malformed trigger payload", "err", err)
			continue
		}
		if err := t.Validate(); err != nil {
			log.Warn("invalid trigger", "err", err)
			continue
		}
		l.handler(ctx, t)
	}
}

func (l *Listener) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Listener) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	if l.conn != nil {
		_ = l.conn.Close()
		l.conn = nil
	}
}

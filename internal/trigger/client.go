package trigger

import (
	"encoding/json"
	"fmt"
	"net"
)

// Send delivers one trigger datagram to the daemon socket.
// Fails when no daemon is listening, which the CLI reports to the user.
func Send(socketPath string, t Trigger) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid trigger: %w", err)
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode trigger: %w", err)
	}

	conn, err := dialRaw(socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("send trigger: %w", err)
	}
	return nil
}

func dialRaw(socketPath string) (*net.UnixConn, error) {
	addr, err := net.ResolveUnixAddr("unixgram", socketPath)
	if err != nil {
		return nil, fmt.Errorf("resolve socket %s: %w", socketPath, err)
	}
	conn, err := net.DialUnix("unixgram", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial socket %s: %w", socketPath, err)
	}
	return conn, nil
}

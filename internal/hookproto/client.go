package hookproto

import (
	"bufio"
	"fmt"
	"net"
	"time"
)

// Send dials socketPath, writes a single HookMessage, and waits for the
// daemon's ack. This backs the `pleb cc-run-hook <event_name>` client
// subcommand that the installed Claude settings invoke.
func Send(socketPath string, msg HookMessage) error {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connecting to hook socket %s: %w", socketPath, err)
	}
	defer conn.Close()

	if err := WriteMessage(conn, msg); err != nil {
		return err
	}

	ack, err := ReadAck(bufio.NewReader(conn))
	if err != nil {
		return fmt.Errorf("reading hook ack: %w", err)
	}
	if !ack.OK {
		return fmt.Errorf("daemon rejected hook event: %s", ack.Error)
	}
	return nil
}

// Package hookproto implements the Unix-socket protocol between the
// `pleb cc-run-hook` client (invoked by the coding agent's own hook
// machinery) and the daemon's long-running accept loop. Messages are
// newline-framed JSON so a client can write one line and half-close,
// keeping the protocol trivial to drive from a shell script.
package hookproto

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// HookMessage is one event reported by the coding agent via a hook script.
// EventName is a plain string, not an enum, so a future agent version can
// send an event pleb doesn't yet recognize without failing to parse —
// unknown events are logged and acknowledged rather than rejected.
type HookMessage struct {
	EventName   string          `json:"event_name"`
	IssueNumber int             `json:"issue_number"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// Ack is the single-line JSON response written back to the client after
// its message has been processed.
type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// WriteMessage writes msg as a single newline-terminated JSON line.
func WriteMessage(w io.Writer, msg HookMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding hook message: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing hook message: %w", err)
	}
	return nil
}

// ReadMessage reads a single newline-terminated JSON hook message from r.
func ReadMessage(r *bufio.Reader) (HookMessage, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return HookMessage{}, err
	}
	var msg HookMessage
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		return HookMessage{}, fmt.Errorf("decoding hook message: %w", err)
	}
	return msg, nil
}

// WriteAck writes a single newline-terminated JSON ack line.
func WriteAck(w io.Writer, ack Ack) error {
	data, err := json.Marshal(ack)
	if err != nil {
		return fmt.Errorf("encoding ack: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ReadAck reads a single newline-terminated JSON ack line.
func ReadAck(r *bufio.Reader) (Ack, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return Ack{}, err
	}
	var ack Ack
	if err := json.Unmarshal([]byte(line), &ack); err != nil {
		return Ack{}, fmt.Errorf("decoding ack: %w", err)
	}
	return ack, nil
}

package hookproto

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"

	"github.com/google/uuid"

	"github.com/pleborg/pleb/internal/logging"
)

// Handler processes one hook message and returns an error only when the
// message itself could not be handled (e.g. a label write that failed); a
// recognized-but-no-op event (PostToolUse, PermissionRequest) returns nil.
// Hook-IPC errors are logged and discarded per the spec's error taxonomy —
// they never propagate up and never stop the accept loop.
type Handler func(ctx context.Context, msg HookMessage) error

// Server accepts hook connections on a single well-known Unix domain
// socket inside the daemon directory.
type Server struct {
	socketPath string
	handler    Handler
	listener   net.Listener
}

// NewServer returns a Server bound to socketPath. The socket file is
// removed and recreated if a stale one is left over from a previous,
// uncleanly terminated daemon.
func NewServer(socketPath string, handler Handler) (*Server, error) {
	_ = os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", socketPath, err)
	}

	return &Server{socketPath: socketPath, handler: handler, listener: listener}, nil
}

// Serve runs the accept loop until ctx is cancelled. Each connection is
// handled in its own goroutine so a slow or misbehaving client never
// blocks other hook events or the orchestrator's sweep tasks.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accepting hook connection: %w", err)
			}
		}
		go s.handleConn(ctx, conn)
	}
}

// Close stops accepting connections and removes the socket file.
func (s *Server) Close() error {
	err := s.listener.Close()
	_ = os.Remove(s.socketPath)
	return err
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	correlationID := uuid.NewString()
	ctx = logging.ContextWithCorrelationID(ctx, correlationID)
	log := logging.WithComponent("hookproto").With("correlation_id", correlationID)

	reader := bufio.NewReader(conn)
	msg, err := ReadMessage(reader)
	if err != nil {
		log.Warn("hook connection sent an unreadable message", "error", err)
		_ = WriteAck(conn, Ack{OK: false, Error: "malformed message"})
		return
	}

	log = log.With("event_name", msg.EventName, "issue_number", msg.IssueNumber)

	if err := s.handler(ctx, msg); err != nil {
		log.Warn("hook event handling failed", "error", err)
		_ = WriteAck(conn, Ack{OK: false, Error: err.Error()})
		return
	}

	log.Info("hook event handled")
	_ = WriteAck(conn, Ack{OK: true})
}

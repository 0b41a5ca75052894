// Package window drives a terminal multiplexer through the `tmux` binary.
// No library in the example pack models tmux sessions, so this package
// shells the binary via os/exec with a LookPath availability check.
package window

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// SessionName is the single named tmux session pleb manages.
const SessionName = "pleb"

// Manager drives the "pleb" tmux session.
type Manager struct {
	tmuxPath string
}

// NewManager resolves the tmux binary on PATH. It returns an error if tmux
// is not installed, since every other operation in this package depends on
// it.
func NewManager() (*Manager, error) {
	path, err := exec.LookPath("tmux")
	if err != nil {
		return nil, fmt.Errorf("tmux not found on PATH: %w", err)
	}
	return &Manager{tmuxPath: path}, nil
}

// WindowName returns the deterministic window name for an issue.
func WindowName(issueNumber int) string {
	return fmt.Sprintf("issue-%d", issueNumber)
}

// FinishedWindowName returns the window name pleb renames to once an
// issue's PR has merged.
func FinishedWindowName(issueNumber int) string {
	return fmt.Sprintf("issue-%d-finished", issueNumber)
}

// EnsureSession creates the "pleb" session (detached) if it doesn't exist.
func (m *Manager) EnsureSession(ctx context.Context) error {
	if m.sessionExists(ctx) {
		return nil
	}
	return m.run(ctx, "new-session", "-d", "-s", SessionName)
}

// CreateWindow creates a new window in the managed session, opening a shell
// in dir. It is a no-op if a window with that name already exists.
func (m *Manager) CreateWindow(ctx context.Context, windowName, dir string) error {
	if m.WindowExists(ctx, windowName) {
		return nil
	}
	target := SessionName
	return m.run(ctx, "new-window", "-t", target, "-n", windowName, "-c", dir)
}

// WindowExists reports whether a window with the given name exists in the
// managed session.
func (m *Manager) WindowExists(ctx context.Context, windowName string) bool {
	names, err := m.ListWindows(ctx)
	if err != nil {
		return false
	}
	for _, n := range names {
		if n == windowName {
			return true
		}
	}
	return false
}

// ListWindows returns the names of every window in the managed session.
func (m *Manager) ListWindows(ctx context.Context) ([]string, error) {
	out, err := m.output(ctx, "list-windows", "-t", SessionName, "-F", "#{window_name}")
	if err != nil {
		if strings.Contains(err.Error(), "can't find session") {
			return nil, nil
		}
		return nil, err
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var names []string
	for _, l := range lines {
		if l != "" {
			names = append(names, l)
		}
	}
	return names, nil
}

// KillWindow closes a window. It tolerates the window, or the whole
// session, already being gone.
func (m *Manager) KillWindow(ctx context.Context, windowName string) error {
	target := fmt.Sprintf("%s:%s", SessionName, windowName)
	err := m.run(ctx, "kill-window", "-t", target)
	if err != nil && (strings.Contains(err.Error(), "can't find window") || strings.Contains(err.Error(), "can't find session")) {
		return nil
	}
	return err
}

// RenameWindow renames a window, used when an issue's PR merges.
func (m *Manager) RenameWindow(ctx context.Context, oldName, newName string) error {
	target := fmt.Sprintf("%s:%s", SessionName, oldName)
	return m.run(ctx, "rename-window", "-t", target, newName)
}

// SendKeys types literal text into a window followed by Enter, used to
// drive provision hooks and to type the agent's launch command, which reads
// the rendered prompt file.
func (m *Manager) SendKeys(ctx context.Context, windowName, keys string) error {
	target := fmt.Sprintf("%s:%s", SessionName, windowName)
	return m.run(ctx, "send-keys", "-t", target, keys, "Enter")
}

// AttachCommand returns the exec.Cmd an operator's shell should exec to
// attach their terminal to a specific window. It does not run the command:
// attaching replaces the calling process's terminal, which only makes
// sense from the `pleb attach` CLI command itself.
func (m *Manager) AttachCommand(windowName string) *exec.Cmd {
	target := fmt.Sprintf("%s:%s", SessionName, windowName)
	return exec.Command(m.tmuxPath, "attach-session", "-t", target)
}

func (m *Manager) sessionExists(ctx context.Context) bool {
	err := m.run(ctx, "has-session", "-t", SessionName)
	return err == nil
}

func (m *Manager) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, m.tmuxPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tmux %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (m *Manager) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, m.tmuxPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tmux %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

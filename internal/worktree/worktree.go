// Package worktree manages per-issue git worktrees. Linked worktrees have
// no first-class support in go-git, so create/remove/list shell the real
// git CLI — the same approach the rest of this codebase uses for every
// other external tool it doesn't have a library for.
package worktree

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Manager creates and removes linked worktrees against a single base
// repository clone. createMu serializes `git worktree add` calls: running
// them concurrently against the same repo races on .git/worktrees
// bookkeeping files.
type Manager struct {
	repoPath string
	createMu sync.Mutex
}

// NewManager returns a Manager rooted at repoPath, which must already be a
// git repository (see EnsureRepo).
func NewManager(repoPath string) *Manager {
	return &Manager{repoPath: repoPath}
}

// Path returns the deterministic worktree directory for an issue, derived
// from the base directory, the issue number and an optional slug — the spec's
// "deterministic path derivation" invariant, so repeated calls for the
// same issue always agree without needing to consult the tracker.
func Path(baseDir string, issueNumber int, slug string) string {
	name := fmt.Sprintf("%d", issueNumber)
	if slug != "" {
		name = fmt.Sprintf("%d-%s", issueNumber, slug)
	}
	return filepath.Join(baseDir, name)
}

// IssueNumberFromPath recovers the issue number Path encoded into a
// worktree directory, used by `pleb cc-run-hook` to identify which issue a
// hook event's working directory belongs to.
func IssueNumberFromPath(path string) (int, error) {
	name := filepath.Base(path)
	digits := name
	if idx := strings.IndexByte(name, '-'); idx >= 0 {
		digits = name[:idx]
	}
	number, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("parsing issue number from worktree path %q: %w", path, err)
	}
	return number, nil
}

// Branch returns the deterministic branch name for an issue.
func Branch(issueNumber int) string {
	return fmt.Sprintf("pleb/issue-%d", issueNumber)
}

// Create ensures a linked worktree exists at path on branch, creating the
// branch if it doesn't already exist. Create is idempotent: if a worktree
// already exists at path, it returns nil without modifying anything.
func (m *Manager) Create(ctx context.Context, path, branch string) error {
	if m.exists(ctx, path) {
		return nil
	}

	m.createMu.Lock()
	defer m.createMu.Unlock()

	// Re-check after acquiring the lock: a concurrent Create for the same
	// path could have just finished and we lost the race to observe it
	// before blocking.
	if m.exists(ctx, path) {
		return nil
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		cmd := exec.CommandContext(ctx, "git", "-C", m.repoPath, "worktree", "add", "-B", branch, path, "HEAD")
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("git worktree add: %w: %s", err, stderr.String())
			if isTransientWorktreeError(stderr.String()) {
				time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
				continue
			}
			return lastErr
		}
		return nil
	}
	return lastErr
}

// Remove deletes a linked worktree and prunes stale metadata. It tolerates
// the worktree already being gone.
func (m *Manager) Remove(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "git", "-C", m.repoPath, "worktree", "remove", "--force", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil && !strings.Contains(stderr.String(), "not a working tree") {
		return fmt.Errorf("git worktree remove: %w: %s", err, stderr.String())
	}

	pruneCmd := exec.CommandContext(ctx, "git", "-C", m.repoPath, "worktree", "prune")
	return pruneCmd.Run()
}

// Entry is one row of `git worktree list --porcelain`.
type Entry struct {
	Path   string
	Branch string
	Head   string
}

// List parses `git worktree list --porcelain` into structured entries.
func (m *Manager) List(ctx context.Context) ([]Entry, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", m.repoPath, "worktree", "list", "--porcelain")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git worktree list: %w", err)
	}
	return parsePorcelain(string(out)), nil
}

func parsePorcelain(output string) []Entry {
	var entries []Entry
	var current Entry

	flush := func() {
		if current.Path != "" {
			entries = append(entries, current)
		}
		current = Entry{}
	}

	for _, line := range strings.Split(output, "\n") {
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		}
	}
	flush()

	return entries
}

func (m *Manager) exists(ctx context.Context, path string) bool {
	entries, err := m.List(ctx)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Path == path {
			return true
		}
	}
	return false
}

// isTransientWorktreeError recognizes the same class of races the teacher's
// executor package retries: concurrent writers to .git/worktrees metadata
// surface as "commondir"/"gitdir" complaints from git itself.
func isTransientWorktreeError(stderr string) bool {
	return strings.Contains(stderr, "commondir") || strings.Contains(stderr, "gitdir")
}

package orchestrator

import (
	"context"
	"fmt"

	"github.com/pleborg/pleb/internal/config"
	"github.com/pleborg/pleb/internal/logging"
	"github.com/pleborg/pleb/internal/state"
	"github.com/pleborg/pleb/internal/window"
	"github.com/pleborg/pleb/internal/worktree"
)

// WorktreeLister is the subset of worktree.Manager Restore needs.
type WorktreeLister interface {
	List(ctx context.Context) ([]worktree.Entry, error)
}

// WindowLister is the subset of window.Manager Restore needs.
type WindowLister interface {
	ListWindows(ctx context.Context) ([]string, error)
}

// Restore reconciles the in-memory tracker purely from observable external
// state after a daemon restart: GitHub's dual-label marker for issues stuck
// mid-provisioning, plus whatever linked worktrees and tmux windows already
// exist. It never reads the (optional, non-authoritative) audit journal —
// the spec requires restore to work even with the journal deleted,
// grounded on the teacher's label-and-filesystem orphan recovery sweep.
func Restore(ctx context.Context, cfg *config.Config, issues IssueTracker, worktrees WorktreeLister,
	windows WindowLister, tracker *state.Tracker) error {
	log := logging.WithComponent("restore")

	dangling, err := issuesWithBothLabels(ctx, issues, cfg.Labels.Ready, cfg.Labels.InProgress)
	if err != nil {
		return fmt.Errorf("listing dangling issues: %w", err)
	}

	worktreeEntries, err := worktrees.List(ctx)
	if err != nil {
		return fmt.Errorf("listing worktrees: %w", err)
	}
	worktreeByBranch := make(map[string]worktree.Entry, len(worktreeEntries))
	for _, e := range worktreeEntries {
		worktreeByBranch[e.Branch] = e
	}

	windowNames, err := windows.ListWindows(ctx)
	if err != nil {
		return fmt.Errorf("listing tmux windows: %w", err)
	}
	windowSet := make(map[string]bool, len(windowNames))
	for _, n := range windowNames {
		windowSet[n] = true
	}

	for _, iss := range dangling {
		branch := worktree.Branch(iss.Number)
		entry, hasWorktree := worktreeByBranch[branch]
		windowName := window.WindowName(iss.Number)
		hasWindow := windowSet[windowName]

		if !hasWorktree && !hasWindow {
			// Nothing survived the crash; the orchestrator's next Sweep A
			// will re-claim it from scratch once the ready label is seen
			// again (recovery for this case is to remove the stale
			// in-progress marker, done by the caller via RemoveLabel).
			log.Warn("dangling issue has neither worktree nor window, leaving for re-provisioning", "issue_number", iss.Number)
			continue
		}

		if _, err := tracker.Insert(iss.Number); err != nil {
			continue // already reconciled by a previous restore pass
		}
		worktreePath := ""
		if hasWorktree {
			worktreePath = entry.Path
		}
		if err := tracker.GetMut(iss.Number, func(t *state.TrackedIssue) {
			t.WindowName = windowName
			t.WorktreePath = worktreePath
		}); err != nil {
			log.Warn("recording reconciled worktree and window failed", "issue_number", iss.Number, "error", err)
			continue
		}
		// A surviving worktree or window means the agent was at least
		// launched; Working is the conservative assumption — a stale Stop
		// hook the daemon missed while it was down will still arrive once
		// the agent's hook script next fires, correcting this to Waiting.
		if err := tracker.Transition(iss.Number, state.Provisioning); err != nil {
			log.Warn("restoring provisioning state failed", "issue_number", iss.Number, "error", err)
			continue
		}
		if err := tracker.Transition(iss.Number, state.Working); err != nil {
			log.Warn("restoring working state failed", "issue_number", iss.Number, "error", err)
			continue
		}
		log.Info("reconciled dangling issue", "issue_number", iss.Number, "worktree", worktreePath, "window", windowName)
	}

	return nil
}

func issuesWithBothLabels(ctx context.Context, issues IssueTracker, ready, inProgress string) ([]Issue, error) {
	if lister, ok := issues.(interface {
		IssuesWithBothLabels(ctx context.Context, ready, inProgress string) ([]Issue, error)
	}); ok {
		return lister.IssuesWithBothLabels(ctx, ready, inProgress)
	}
	return nil, nil
}

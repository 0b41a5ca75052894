package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/state"
	"github.com/pleborg/pleb/internal/window"
	"github.com/pleborg/pleb/internal/worktree"
)

// newRestoreCmd wraps infrastructure-only recovery: for every issue in any
// managed state missing its worktree or window, reconstruct it without
// reinvoking the agent and without altering labels. This is distinct from
// the watch daemon's own startup reconciliation (internal/orchestrator's
// Restore), which rebuilds its in-memory tracker from the same observable
// state but never touches the filesystem or tmux itself.
func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Reconstruct missing worktrees and windows for managed issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			windows, err := a.requireWindows()
			if err != nil {
				return err
			}

			issues, err := managedIssues(cmd.Context(), a)
			if err != nil {
				return err
			}

			for _, mi := range issues {
				if mi.State == state.Ready || mi.State == state.Finished {
					// Ready issues haven't been provisioned yet; finished
					// issues are retired. Neither has artifacts to restore.
					continue
				}
				if err := restoreIssue(cmd.Context(), a, windows, mi.Issue.Number); err != nil {
					cmd.PrintErrf("issue #%d: %v\n", mi.Issue.Number, err)
				}
			}
			return nil
		},
	}
}

func restoreIssue(ctx context.Context, a *app, windows *window.Manager, number int) error {
	path := worktree.Path(a.cfg.Paths.Worktrees, number, "")
	if err := a.worktrees.Create(ctx, path, worktree.Branch(number)); err != nil {
		return fmt.Errorf("recreating worktree: %w", err)
	}

	if err := windows.EnsureSession(ctx); err != nil {
		return fmt.Errorf("ensuring tmux session: %w", err)
	}
	windowName := window.WindowName(number)
	if !windows.WindowExists(ctx, windowName) {
		if err := windows.CreateWindow(ctx, windowName, path); err != nil {
			return fmt.Errorf("recreating window: %w", err)
		}
	}
	return nil
}

package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/window"
	"github.com/pleborg/pleb/internal/worktree"
)

func newCleanupCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cleanup <issue-number>",
		Short: "Remove an issue's worktree and window",
		Long:  "cleanup is safe to call when the worktree or window is already absent.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid issue number %q: %w", args[0], err)
			}

			if !yes && !confirmf("Remove the worktree and window for issue #%d?", number) {
				cmd.Println("aborted")
				return nil
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			path := worktree.Path(a.cfg.Paths.Worktrees, number, "")
			if err := a.worktrees.Remove(ctx, path); err != nil {
				return fmt.Errorf("removing worktree: %w", err)
			}

			if a.windows != nil {
				if err := a.windows.KillWindow(ctx, window.WindowName(number)); err != nil {
					return fmt.Errorf("removing window: %w", err)
				}
			}

			cmd.Printf("cleaned up issue #%d\n", number)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the interactive confirmation")
	return cmd
}

// confirmf prompts an interactive yes/no confirmation, grounded on the
// pack's huh.NewConfirm usage for destructive CLI operations.
func confirmf(question string, args ...any) bool {
	var confirmed bool
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(fmt.Sprintf(question, args...)).Inline(true).Value(&confirmed),
	)).Run(); err != nil {
		return false
	}
	return confirmed
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/window"
)

func newAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <issue-number>",
		Short: "Replace the current process with a tmux attach to an issue's window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid issue number %q: %w", args[0], err)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			windows, err := a.requireWindows()
			if err != nil {
				return err
			}

			windowName := window.WindowName(number)
			if !windows.WindowExists(cmd.Context(), windowName) {
				return fmt.Errorf("no window for issue #%d", number)
			}

			attachCmd := windows.AttachCommand(windowName)
			argv := append([]string{attachCmd.Path}, attachCmd.Args[1:]...)
			return syscall.Exec(attachCmd.Path, argv, os.Environ())
		},
	}
}

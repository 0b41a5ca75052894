package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Enumerate active windows in the pleb tmux session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			windows, err := a.requireWindows()
			if err != nil {
				return err
			}

			names, err := windows.ListWindows(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing windows: %w", err)
			}
			if len(names) == 0 {
				cmd.Println("no active windows")
				return nil
			}
			for _, n := range names {
				cmd.Println(n)
			}
			return nil
		},
	}
}

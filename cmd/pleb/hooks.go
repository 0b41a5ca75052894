package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/hookproto"
)

// newHooksCmd groups the hooks subcommands that install pleb's Claude
// settings and slash commands into a worktree.
func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Generate or install pleb's Claude hook configuration",
	}
	cmd.AddCommand(newHooksGenerateCmd(), newHooksInstallCmd())
	return cmd
}

func newHooksGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Print the hook settings.json pleb would install",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := hookproto.GenerateSettings("pleb")
			data, err := json.MarshalIndent(settings, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling generated settings: %w", err)
			}
			cmd.Println(string(data))
			return nil
		},
	}
}

func newHooksInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <worktree-dir>",
		Short: "Merge pleb's hook settings and slash commands into a worktree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			settings := hookproto.GenerateSettings("pleb")
			if err := hookproto.MergeWithExisting(dir, settings); err != nil {
				return fmt.Errorf("merging hook settings: %w", err)
			}
			if err := hookproto.WriteSlashCommands(dir); err != nil {
				return fmt.Errorf("writing slash commands: %w", err)
			}
			cmd.Printf("installed hooks and slash commands into %s\n", dir)
			return nil
		},
	}
}

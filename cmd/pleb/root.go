package main

import (
	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/logging"
)

const version = "0.1.0"

var (
	cfgFile string
	verbose bool
	quiet   bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pleb",
		Short: "Issue-driven worktree and window orchestrator",
		Long: `pleb watches a GitHub label, provisions a git worktree and tmux window
for every matching issue, launches a coding agent inside it, and drives the
issue through ready -> provisioning -> working <-> waiting -> done -> finished
as the agent and reviewers interact.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: discovered .pleb.toml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	cobra.OnInitialize(func() {
		logCfg := logging.DefaultConfig()
		if verbose {
			logCfg.Level = "debug"
		}
		if quiet {
			logging.Suppress()
			return
		}
		_ = logging.Init(logCfg)
	})

	root.AddCommand(
		newWatchCmd(),
		newListCmd(),
		newAttachCmd(),
		newTransitionCmd(),
		newStatusCmd(),
		newLogCmd(),
		newStopCmd(),
		newHooksCmd(),
		newCleanupCmd(),
		newRestoreCmd(),
		newRunHookCmd(),
		newUICmd(),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print pleb's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(version)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/config"
)

func newTransitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transition <issue-number> <state|none>",
		Short: "Administratively overwrite an issue's managed label",
		Long: `transition writes pleb's managed label for an issue directly, bypassing
the orchestrator's state machine. "none" removes every managed label pleb
could have applied, leaving the issue untracked.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid issue number %q: %w", args[0], err)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if args[1] == "none" {
				for _, label := range managedLabels(a.cfg) {
					if err := a.issues.RemoveLabel(ctx, number, label); err != nil {
						return fmt.Errorf("removing label %q from issue #%d: %w", label, number, err)
					}
				}
				cmd.Printf("issue #%d: all managed labels removed\n", number)
				return nil
			}

			to, ok := labelForName(a.cfg, args[1])
			if !ok {
				return fmt.Errorf("unknown state %q", args[1])
			}

			for _, label := range managedLabels(a.cfg) {
				if label == to {
					continue
				}
				if err := a.issues.RemoveLabel(ctx, number, label); err != nil {
					return fmt.Errorf("removing label %q from issue #%d: %w", label, number, err)
				}
			}
			if err := a.issues.AddLabel(ctx, number, to); err != nil {
				return fmt.Errorf("adding label %q to issue #%d: %w", to, number, err)
			}
			cmd.Printf("issue #%d: transitioned to %s\n", number, args[1])
			return nil
		},
	}
}

func managedLabels(cfg *config.Config) []string {
	return []string{
		cfg.Labels.Ready,
		cfg.Labels.Provisioning,
		cfg.Labels.Working,
		cfg.Labels.Waiting,
		cfg.Labels.Done,
		cfg.Labels.Finished,
	}
}

func labelForName(cfg *config.Config, name string) (string, bool) {
	labels := map[string]string{
		"ready":        cfg.Labels.Ready,
		"provisioning": cfg.Labels.Provisioning,
		"working":      cfg.Labels.Working,
		"waiting":      cfg.Labels.Waiting,
		"done":         cfg.Labels.Done,
		"finished":     cfg.Labels.Finished,
	}
	label, ok := labels[name]
	return label, ok
}

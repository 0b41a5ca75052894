package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/daemon"
	"github.com/pleborg/pleb/internal/dashboard"
	"github.com/pleborg/pleb/internal/logging"
	"github.com/pleborg/pleb/internal/window"
)

func newStatusCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status [issue-number]",
		Short: "Print daemon liveness and managed-issue state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if watch {
				logging.Suppress()
				return dashboard.Run(func(ctx context.Context) ([]dashboard.Row, error) {
					return fetchRows(ctx, a)
				})
			}

			if len(args) == 1 {
				number, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid issue number %q: %w", args[0], err)
				}
				return printIssueStatus(cmd.Context(), a, number)
			}

			printDaemonStatus(cmd, a)
			return printManagedIssues(cmd.Context(), cmd, a)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh continuously in a live dashboard")
	return cmd
}

func printIssueStatus(ctx context.Context, a *app, number int) error {
	issues, err := managedIssues(ctx, a)
	if err != nil {
		return err
	}
	for _, mi := range issues {
		if mi.Issue.Number == number {
			fmt.Printf("#%d %s\nstate: %s\nurl: %s\n", mi.Issue.Number, mi.Issue.Title, mi.State, mi.Issue.HTMLURL)
			return nil
		}
	}
	return fmt.Errorf("issue #%d is not managed by pleb", number)
}

func printDaemonStatus(cmd *cobra.Command, a *app) {
	pidFile := daemon.NewPIDFile(a.cfg.Paths.DaemonDir)
	pid, err := pidFile.Read()
	if err != nil {
		cmd.Println("daemon: not running")
		return
	}
	uptime := "unknown"
	if info, statErr := os.Stat(a.layout.PIDPath()); statErr == nil {
		uptime = time.Since(info.ModTime()).Round(time.Second).String()
	}
	cmd.Printf("daemon: running (pid %d, uptime %s)\n", pid, uptime)
}

func printManagedIssues(ctx context.Context, cmd *cobra.Command, a *app) error {
	issues, err := managedIssues(ctx, a)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		cmd.Println("no managed issues")
		return nil
	}
	for _, mi := range issues {
		cmd.Printf("#%-6d %-10s %s\n", mi.Issue.Number, mi.State, mi.Issue.Title)
	}
	return nil
}

func fetchRows(ctx context.Context, a *app) ([]dashboard.Row, error) {
	issues, err := managedIssues(ctx, a)
	if err != nil {
		return nil, err
	}
	rows := make([]dashboard.Row, 0, len(issues))
	for _, mi := range issues {
		name := ""
		if a.windows != nil && a.windows.WindowExists(ctx, window.WindowName(mi.Issue.Number)) {
			name = window.WindowName(mi.Issue.Number)
		}
		rows = append(rows, dashboard.Row{
			IssueNumber: mi.Issue.Number,
			Title:       mi.Issue.Title,
			State:       string(mi.State),
			WindowName:  name,
		})
	}
	return rows, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/banner"
	"github.com/pleborg/pleb/internal/config"
	"github.com/pleborg/pleb/internal/daemon"
	"github.com/pleborg/pleb/internal/hookproto"
	"github.com/pleborg/pleb/internal/journal"
	"github.com/pleborg/pleb/internal/logging"
	"github.com/pleborg/pleb/internal/orchestrator"
	"github.com/pleborg/pleb/internal/state"
	"github.com/pleborg/pleb/internal/worktree"
)

func newWatchCmd() *cobra.Command {
	var background bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Start watching the ready label and provisioning issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			if background {
				return fmt.Errorf("--daemon requires an external process supervisor; run `pleb watch &` or use your init system")
			}
			return runWatch(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&background, "daemon", "d", false, "unsupported: watch exits with an error; run it under your shell or init system to detach")
	return cmd
}

func runWatch(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	pidFile := daemon.NewPIDFile(a.cfg.Paths.DaemonDir)
	if err := pidFile.Acquire(); err != nil {
		return err
	}
	defer pidFile.Release()

	logCfg := logging.DefaultConfig()
	logCfg.Output = a.layout.LogPath()
	if verbose {
		logCfg.Level = "debug"
	}
	if !quiet {
		if err := logging.Init(logCfg); err != nil {
			return fmt.Errorf("initializing daemon log file: %w", err)
		}
	}

	windows, err := a.requireWindows()
	if err != nil {
		return err
	}

	if err := worktree.EnsureRepo(ctx, a.cfg.Paths.RepoRoot, cloneURL(a.cfg), a.cfg.GitHub.Token); err != nil {
		logging.WithComponent("watch").Warn("ensuring base repository failed, assuming it already exists", "error", err)
	}

	j, err := journal.Open(a.layout.JournalPath())
	if err != nil {
		logging.WithComponent("watch").Warn("opening audit journal failed, continuing without it", "error", err)
		j = nil
	}
	if j != nil {
		defer j.Close()
	}

	tracker := state.New()

	if err := orchestrator.Restore(ctx, a.cfg, a.issues, a.worktrees, windows, tracker); err != nil {
		logging.WithComponent("watch").Warn("restore reconciliation failed", "error", err)
	}

	orch := orchestrator.New(a.cfg, a.issues, a.worktrees, windows, a.prompts, a.fetcher, journalOrNil(j), tracker, 4)

	server, err := hookproto.NewServer(a.layout.SocketPath(), orchestrator.NewHookHandler(a.cfg, a.issues, tracker, journalOrNil(j)))
	if err != nil {
		return fmt.Errorf("starting hook server: %w", err)
	}
	defer server.Close()

	banner.StartupBanner(version, a.cfg.GitHub.Owner+"/"+a.cfg.GitHub.Repo, a.cfg.Labels.Ready)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			if sig == syscall.SIGHUP {
				orch.Trigger()
				continue
			}
			fmt.Println("\nshutting down...")
			cancel()
			return
		}
	}()

	errCh := make(chan error, 2)
	go func() { errCh <- server.Serve(runCtx) }()
	go func() { errCh <- orch.Run(runCtx) }()

	<-runCtx.Done()
	return <-errCh
}

// cloneURL builds the HTTPS clone URL for the configured repository,
// honoring a GitHub Enterprise host when one is set.
func cloneURL(cfg *config.Config) string {
	host := cfg.GitHub.Host
	if host == "" {
		host = "github.com"
	}
	return fmt.Sprintf("https://%s/%s/%s.git", host, cfg.GitHub.Owner, cfg.GitHub.Repo)
}

func journalOrNil(j *journal.Journal) orchestrator.Journal {
	if j == nil {
		return nil
	}
	return j
}

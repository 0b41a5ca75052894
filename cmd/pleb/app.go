package main

import (
	"fmt"
	"os"

	"github.com/pleborg/pleb/internal/config"
	"github.com/pleborg/pleb/internal/daemon"
	"github.com/pleborg/pleb/internal/media"
	"github.com/pleborg/pleb/internal/orchestrator"
	"github.com/pleborg/pleb/internal/prompt"
	"github.com/pleborg/pleb/internal/tracker"
	"github.com/pleborg/pleb/internal/window"
	"github.com/pleborg/pleb/internal/worktree"
)

// loadConfig discovers and loads pleb's configuration, honoring the
// --config flag when set.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	return config.Load(cwd)
}

// app bundles every adapter a CLI command might need, built once from a
// loaded and validated Config.
type app struct {
	cfg       *config.Config
	github    *tracker.GitHub
	issues    orchestrator.IssueTracker
	worktrees *worktree.Manager
	windows   *window.Manager
	prompts   *prompt.Renderer
	fetcher   *media.Fetcher
	layout    daemon.Layout
}

// newApp loads config and wires every adapter. tmux availability is
// optional: commands that don't touch windows (e.g. `pleb log`) still work
// without it, so a missing tmux binary is not fatal here; commands that
// need windows report it through requireWindows.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gh, err := tracker.New(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Token, cfg.GitHub.Host)
	if err != nil {
		return nil, fmt.Errorf("building github client: %w", err)
	}

	wt := worktree.NewManager(cfg.Paths.RepoRoot)

	var windows *window.Manager
	if wm, err := window.NewManager(); err == nil {
		windows = wm
	}

	return &app{
		cfg:       cfg,
		github:    gh,
		issues:    orchestrator.NewGitHubAdapter(gh),
		worktrees: wt,
		windows:   windows,
		prompts:   prompt.NewRenderer(cfg.Prompts.Directory),
		fetcher:   media.NewFetcher(cfg.Paths.DaemonDir),
		layout:    daemon.NewLayout(cfg.Paths.DaemonDir),
	}, nil
}

func (a *app) requireWindows() (*window.Manager, error) {
	if a.windows == nil {
		return nil, fmt.Errorf("tmux not found on PATH")
	}
	return a.windows, nil
}

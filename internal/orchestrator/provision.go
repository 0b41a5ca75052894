package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pleborg/pleb/internal/hookproto"
	"github.com/pleborg/pleb/internal/logging"
	"github.com/pleborg/pleb/internal/prompt"
	"github.com/pleborg/pleb/internal/state"
	"github.com/pleborg/pleb/internal/window"
	"github.com/pleborg/pleb/internal/worktree"
)

// provision runs the full Ready -> Working pipeline for one claimed issue:
// create its worktree and window, localize media, render the prompt,
// install hooks and slash commands, run provision hooks, and launch the
// agent. A failure partway through leaves the issue tracked in
// Provisioning rather than rolling back, so a future restore can pick up
// where it left off instead of silently losing the claim.
func (o *Orchestrator) provision(ctx context.Context, issueNumber int) error {
	ctx = logging.ContextWithIssue(ctx, issueNumber)
	log := logging.WithIssue(issueNumber)

	issue, err := o.fetchClaimed(ctx, issueNumber)
	if err != nil {
		return err
	}

	if err := o.tracker.Transition(issueNumber, state.Provisioning); err != nil {
		return fmt.Errorf("transitioning to provisioning: %w", err)
	}
	if err := o.issues.ReplaceLabel(ctx, issueNumber, o.cfg.Labels.Ready, o.cfg.Labels.Provisioning); err != nil {
		return fmt.Errorf("replacing ready label: %w", err)
	}
	o.record(ctx, issueNumber, "sweep", "claimed ready issue for provisioning")

	branch := worktree.Branch(issueNumber)
	worktreePath := worktree.Path(o.cfg.Paths.Worktrees, issueNumber, "")
	windowName := window.WindowName(issueNumber)

	if err := o.worktrees.Create(ctx, worktreePath, branch); err != nil {
		return fmt.Errorf("creating worktree: %w", err)
	}

	if err := o.windows.EnsureSession(ctx); err != nil {
		return fmt.Errorf("ensuring tmux session: %w", err)
	}
	if err := o.windows.CreateWindow(ctx, windowName, worktreePath); err != nil {
		return fmt.Errorf("creating tmux window: %w", err)
	}

	if err := o.tracker.GetMut(issueNumber, func(t *state.TrackedIssue) {
		t.WorktreePath = worktreePath
		t.WindowName = windowName
		t.ProvisionedAt = time.Now()
	}); err != nil {
		return fmt.Errorf("recording worktree and window: %w", err)
	}

	body := issue.Body
	if o.fetcher != nil {
		body = o.fetcher.Localize(ctx, body)
	}

	promptPath := filepath.Join(worktreePath, ".pleb-prompt.md")
	if _, err := o.prompts.RenderToFile(o.cfg.Prompts.Filename, prompt.IssueContext{
		IssueNumber:  issue.Number,
		Title:        issue.Title,
		Body:         body,
		BranchName:   branch,
		WorktreePath: worktreePath,
		HTMLURL:      issue.HTMLURL,
	}, promptPath); err != nil {
		return fmt.Errorf("rendering prompt: %w", err)
	}

	settings := hookproto.GenerateSettings("pleb")
	if err := hookproto.MergeWithExisting(worktreePath, settings); err != nil {
		return fmt.Errorf("writing claude hook settings: %w", err)
	}
	if err := hookproto.WriteSlashCommands(worktreePath); err != nil {
		return fmt.Errorf("writing slash commands: %w", err)
	}

	if err := o.runProvisionHooks(ctx, windowName); err != nil {
		return fmt.Errorf("running provision hooks: %w", err)
	}

	launch := o.cfg.Claude.Command
	for _, arg := range o.cfg.Claude.Args {
		launch += " " + arg
	}
	// The rendered prompt reaches the agent as its first message, read from
	// the prompt file by the window's shell.
	launch += fmt.Sprintf(` "$(cat '%s')"`, promptPath)
	if err := o.windows.SendKeys(ctx, windowName, launch); err != nil {
		return fmt.Errorf("launching agent: %w", err)
	}

	if err := o.tracker.Transition(issueNumber, state.Working); err != nil {
		return fmt.Errorf("transitioning to working: %w", err)
	}
	if err := o.issues.ReplaceLabel(ctx, issueNumber, o.cfg.Labels.Provisioning, o.cfg.Labels.Working); err != nil {
		return fmt.Errorf("replacing provisioning label: %w", err)
	}
	o.record(ctx, issueNumber, "sweep", "agent launched, issue now working")

	log.Info("issue provisioned", "worktree", worktreePath, "window", windowName)
	return nil
}

// runProvisionHooks sends each configured hook command into the window,
// one keystroke send per command, pausing KeystrokeGap between each so
// tmux has time to deliver them in order rather than interleaving.
func (o *Orchestrator) runProvisionHooks(ctx context.Context, windowName string) error {
	for _, hook := range o.cfg.Provision.Hooks {
		if err := o.windows.SendKeys(ctx, windowName, hook); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.cfg.Provision.KeystrokeGap):
		}
	}
	return nil
}

// fetchClaimed re-reads the issue from GitHub at provisioning time so the
// prompt is rendered from a body that reflects any edits made between the
// ready label landing and this worker picking the issue up.
func (o *Orchestrator) fetchClaimed(ctx context.Context, issueNumber int) (Issue, error) {
	return FetchIssue(ctx, o.issues, issueNumber)
}

// FetchIssue reads a single issue by number if issues supports it, falling
// back to a bare Issue carrying only the number otherwise. Exported so
// standalone CLI commands (list, status, transition, cleanup) can reuse
// the same optional-capability pattern the provisioning pipeline uses.
func FetchIssue(ctx context.Context, issues IssueTracker, number int) (Issue, error) {
	if fetcher, ok := issues.(interface {
		Issue(ctx context.Context, number int) (Issue, error)
	}); ok {
		return fetcher.Issue(ctx, number)
	}
	return Issue{Number: number}, nil
}

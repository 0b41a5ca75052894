// Package orchestrator runs pleb's two recurring sweeps — picking up newly
// ready issues and detecting merged pull requests — against the shared
// in-memory state tracker, grounded on the teacher's worker-queue
// orchestrator (task queue, running-set dedup, bounded workers) generalized
// from ad-hoc tasks to GitHub issues.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/pleborg/pleb/internal/config"
	"github.com/pleborg/pleb/internal/logging"
	"github.com/pleborg/pleb/internal/media"
	"github.com/pleborg/pleb/internal/prompt"
	"github.com/pleborg/pleb/internal/state"
)

// IssueTracker is the subset of the GitHub adapter the orchestrator needs.
// Defined here (rather than depended on concretely) so sweeps can be
// exercised against a fake in tests without a live GitHub token.
type IssueTracker interface {
	IssuesWithLabel(ctx context.Context, label string) ([]Issue, error)
	AddLabel(ctx context.Context, number int, label string) error
	RemoveLabel(ctx context.Context, number int, label string) error
	ReplaceLabel(ctx context.Context, number int, from, to string) error
	CheckPRMerged(ctx context.Context, number int) (found bool, merged bool, err error)
}

// Issue mirrors tracker.Issue to keep this package's public surface free of
// a hard dependency on the concrete GitHub client type.
type Issue struct {
	Number  int
	Title   string
	Body    string
	HTMLURL string
	Labels  []string
}

// WorktreeManager is the subset of worktree.Manager the orchestrator needs.
type WorktreeManager interface {
	Create(ctx context.Context, path, branch string) error
}

// WindowManager is the subset of window.Manager the orchestrator needs.
type WindowManager interface {
	EnsureSession(ctx context.Context) error
	CreateWindow(ctx context.Context, windowName, dir string) error
	RenameWindow(ctx context.Context, oldName, newName string) error
	SendKeys(ctx context.Context, windowName, keys string) error
}

// Journal is the subset of journal.Journal the orchestrator needs. A nil
// Journal is valid: every call site tolerates it, since the audit log is
// optional and never authoritative.
type Journal interface {
	Record(ctx context.Context, issueNumber int, kind, detail string) error
}

// Orchestrator wires the tracker, worktree, window, prompt, and media
// packages together into the provisioning and merge-detection sweeps.
type Orchestrator struct {
	cfg *config.Config

	issues    IssueTracker
	worktrees WorktreeManager
	windows   WindowManager
	prompts   *prompt.Renderer
	fetcher   *media.Fetcher
	journal   Journal
	tracker   *state.Tracker

	queue     chan int
	triggerCh chan struct{}
	wg        sync.WaitGroup
	workers   int
}

// New builds an Orchestrator. workers bounds how many issues Sweep A
// provisions concurrently, matching the teacher's bounded worker pool.
func New(cfg *config.Config, issues IssueTracker, worktrees WorktreeManager, windows WindowManager,
	renderer *prompt.Renderer, fetcher *media.Fetcher, journal Journal, tracker *state.Tracker, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		cfg:       cfg,
		issues:    issues,
		worktrees: worktrees,
		windows:   windows,
		prompts:   renderer,
		fetcher:   fetcher,
		journal:   journal,
		tracker:   tracker,
		queue:     make(chan int, 64),
		triggerCh: make(chan struct{}, 1),
		workers:   workers,
	}
}

// Run ticks Sweep A and Sweep B on the configured poll interval until ctx
// is cancelled. Workers are started first so queued provisioning work from
// the very first Sweep A tick has somewhere to land. The recurring tick
// itself is scheduled by robfig/cron rather than a bare time.Ticker: an
// "@every" spec built from cfg.Watch.PollInterval drives cron's own
// goroutine, which posts onto triggerCh so at most one sweep is ever
// pending regardless of how cron's scheduler is tuned.
func (o *Orchestrator) Run(ctx context.Context) error {
	log := logging.WithComponent("orchestrator")

	for i := 0; i < o.workers; i++ {
		o.wg.Add(1)
		go o.provisionWorker(ctx)
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", o.cfg.Watch.PollInterval), func() {
		o.Trigger()
	}); err != nil {
		close(o.queue)
		o.wg.Wait()
		return fmt.Errorf("scheduling sweep cron: %w", err)
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	o.tick(ctx, log)

	for {
		select {
		case <-ctx.Done():
			close(o.queue)
			o.wg.Wait()
			return nil
		case <-o.triggerCh:
			o.tick(ctx, log)
		}
	}
}

// Trigger forces an immediate sweep outside the regular cron schedule,
// backing the operator-facing "force a sweep now" affordance described in
// the orchestrator's design notes. It is a no-op if a sweep is already
// pending.
func (o *Orchestrator) Trigger() {
	select {
	case o.triggerCh <- struct{}{}:
	default:
	}
}

func (o *Orchestrator) tick(ctx context.Context, log *slog.Logger) {
	if err := o.SweepA(ctx); err != nil {
		log.Error("sweep a failed", "error", err)
	}
	if err := o.SweepB(ctx); err != nil {
		log.Error("sweep b failed", "error", err)
	}
}

// SweepA lists issues carrying the ready label and queues any pleb hasn't
// already claimed for provisioning. Claiming happens here, synchronously,
// so two overlapping ticks can never double-claim the same issue (P6): the
// tracker's Insert is the single compare-and-set.
func (o *Orchestrator) SweepA(ctx context.Context) error {
	ready, err := o.issues.IssuesWithLabel(ctx, o.cfg.Labels.Ready)
	if err != nil {
		return fmt.Errorf("listing ready issues: %w", err)
	}

	for _, iss := range ready {
		if _, err := o.tracker.Insert(iss.Number); err != nil {
			continue // already tracked, or a race lost to another tick
		}
		select {
		case o.queue <- iss.Number:
		default:
			logging.WithComponent("orchestrator").Warn("provisioning queue full, dropping issue for next sweep", "issue_number", iss.Number)
			_ = o.tracker.Remove(iss.Number)
		}
	}
	return nil
}

func (o *Orchestrator) provisionWorker(ctx context.Context) {
	defer o.wg.Done()
	for number := range o.queue {
		if err := o.provision(ctx, number); err != nil {
			logging.WithIssue(number).Error("provisioning failed", "error", err)
		}
	}
}

// SweepB checks every Working, Waiting or Done issue for a merged pull request and
// retires it when one is found.
func (o *Orchestrator) SweepB(ctx context.Context) error {
	candidates := o.tracker.ListByState(state.Working, state.Waiting, state.Done)
	for _, issue := range candidates {
		found, merged, err := o.issues.CheckPRMerged(ctx, issue.IssueNumber)
		if err != nil {
			logging.WithIssue(issue.IssueNumber).Warn("checking pr merge status failed", "error", err)
			continue
		}
		if !found || !merged {
			continue
		}
		if err := o.finish(ctx, issue); err != nil {
			logging.WithIssue(issue.IssueNumber).Error("finishing merged issue failed", "error", err)
		}
	}
	return nil
}

func (o *Orchestrator) finish(ctx context.Context, issue state.TrackedIssue) error {
	from := issue.State
	if err := o.tracker.Transition(issue.IssueNumber, state.Finished); err != nil {
		return err
	}
	if err := o.issues.ReplaceLabel(ctx, issue.IssueNumber, labelFor(o.cfg, from), o.cfg.Labels.Finished); err != nil {
		return fmt.Errorf("replacing label for finished issue #%d: %w", issue.IssueNumber, err)
	}
	if o.windows != nil {
		if err := o.windows.RenameWindow(ctx, issue.WindowName, windowFinishedName(issue.IssueNumber)); err != nil {
			logging.WithIssue(issue.IssueNumber).Warn("renaming window for finished issue failed", "error", err)
		}
	}
	o.record(ctx, issue.IssueNumber, "sweep", "pull request merged, issue finished")
	return nil
}

func (o *Orchestrator) record(ctx context.Context, issueNumber int, kind, detail string) {
	if o.journal == nil {
		return
	}
	if err := o.journal.Record(ctx, issueNumber, kind, detail); err != nil {
		logging.WithIssue(issueNumber).Warn("journal record failed", "error", err)
	}
}

func labelFor(cfg *config.Config, s state.PlebState) string {
	switch s {
	case state.Ready:
		return cfg.Labels.Ready
	case state.Provisioning:
		return cfg.Labels.Provisioning
	case state.Working:
		return cfg.Labels.Working
	case state.Waiting:
		return cfg.Labels.Waiting
	case state.Done:
		return cfg.Labels.Done
	case state.Finished:
		return cfg.Labels.Finished
	default:
		return ""
	}
}

func windowFinishedName(issueNumber int) string {
	return fmt.Sprintf("issue-%d-finished", issueNumber)
}

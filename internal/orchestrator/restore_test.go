package orchestrator

import (
	"context"
	"testing"

	"github.com/pleborg/pleb/internal/config"
	"github.com/pleborg/pleb/internal/state"
	"github.com/pleborg/pleb/internal/worktree"
)

type fakeWorktreeLister struct {
	entries []worktree.Entry
}

func (f *fakeWorktreeLister) List(ctx context.Context) ([]worktree.Entry, error) {
	return f.entries, nil
}

type fakeWindowLister struct {
	names []string
}

func (f *fakeWindowLister) ListWindows(ctx context.Context) ([]string, error) {
	return f.names, nil
}

// danglingIssues extends fakeIssues with IssuesWithBothLabels support for
// restore tests.
type danglingIssues struct {
	*fakeIssues
	dangling []Issue
}

func (d *danglingIssues) IssuesWithBothLabels(ctx context.Context, ready, inProgress string) ([]Issue, error) {
	return d.dangling, nil
}

func TestRestoreReconcilesSurvivingWorktree(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()

	issues := &danglingIssues{
		fakeIssues: newFakeIssues(),
		dangling:   []Issue{{Number: 99, Title: "Orphaned", Body: "body"}},
	}

	worktrees := &fakeWorktreeLister{entries: []worktree.Entry{
		{Path: "/repo/worktrees/99", Branch: worktree.Branch(99)},
	}}
	windows := &fakeWindowLister{names: []string{"issue-99"}}

	tracker := state.New()

	if err := Restore(ctx, cfg, issues, worktrees, windows, tracker); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	issue, err := tracker.Get(99)
	if err != nil {
		t.Fatalf("expected issue 99 to be reconciled: %v", err)
	}
	if issue.State != state.Working {
		t.Errorf("expected Working, got %s", issue.State)
	}
	if issue.WorktreePath != "/repo/worktrees/99" {
		t.Errorf("expected worktree path recorded, got %q", issue.WorktreePath)
	}
}

func TestRestoreSkipsIssueWithNoSurvivingState(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()

	issues := &danglingIssues{
		fakeIssues: newFakeIssues(),
		dangling:   []Issue{{Number: 100, Title: "Gone", Body: "body"}},
	}

	tracker := state.New()
	if err := Restore(ctx, cfg, issues, &fakeWorktreeLister{}, &fakeWindowLister{}, tracker); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if tracker.Len() != 0 {
		t.Errorf("expected no issue tracked when neither worktree nor window survived, got %d", tracker.Len())
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()

	issues := &danglingIssues{
		fakeIssues: newFakeIssues(),
		dangling:   []Issue{{Number: 5, Title: "Orphaned", Body: "body"}},
	}
	worktrees := &fakeWorktreeLister{entries: []worktree.Entry{
		{Path: "/repo/worktrees/5", Branch: worktree.Branch(5)},
	}}
	windows := &fakeWindowLister{names: []string{"issue-5"}}
	tracker := state.New()

	if err := Restore(ctx, cfg, issues, worktrees, windows, tracker); err != nil {
		t.Fatalf("first Restore: %v", err)
	}
	if err := Restore(ctx, cfg, issues, worktrees, windows, tracker); err != nil {
		t.Fatalf("second Restore: %v", err)
	}

	if tracker.Len() != 1 {
		t.Errorf("expected exactly one tracked issue after repeated restore, got %d", tracker.Len())
	}
}

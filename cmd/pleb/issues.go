package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/pleborg/pleb/internal/config"
	"github.com/pleborg/pleb/internal/orchestrator"
	"github.com/pleborg/pleb/internal/state"
)

// managedIssue pairs a fetched GitHub issue with the state its current
// label implies.
type managedIssue struct {
	Issue orchestrator.Issue
	State state.PlebState
}

// managedIssues lists every open issue carrying one of pleb's managed
// labels, across every state, sorted by issue number. CLI commands use
// this instead of the watch daemon's in-memory tracker, since each
// invocation is a fresh process with no access to that daemon's state.
func managedIssues(ctx context.Context, a *app) ([]managedIssue, error) {
	seen := make(map[int]managedIssue)

	for _, s := range []state.PlebState{
		state.Ready, state.Provisioning, state.Working, state.Waiting, state.Done, state.Finished,
	} {
		label := labelForState(a.cfg, s)
		issues, err := a.issues.IssuesWithLabel(ctx, label)
		if err != nil {
			return nil, fmt.Errorf("listing issues labeled %q: %w", label, err)
		}
		for _, iss := range issues {
			seen[iss.Number] = managedIssue{Issue: iss, State: s}
		}
	}

	out := make([]managedIssue, 0, len(seen))
	for _, mi := range seen {
		out = append(out, mi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Issue.Number < out[j].Issue.Number })
	return out, nil
}

func labelForState(cfg *config.Config, s state.PlebState) string {
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

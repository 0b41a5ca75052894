package orchestrator

import (
	"context"

	"github.com/pleborg/pleb/internal/tracker"
)

// githubAdapter narrows *tracker.GitHub to the IssueTracker interface and
// converts between tracker.Issue and this package's Issue, keeping the
// orchestrator's public surface independent of the go-github client type.
type githubAdapter struct {
	client *tracker.GitHub
}

// NewGitHubAdapter wraps a tracker.GitHub for use as an Orchestrator's
// IssueTracker.
func NewGitHubAdapter(client *tracker.GitHub) IssueTracker {
	return &githubAdapter{client: client}
}

func (a *githubAdapter) IssuesWithLabel(ctx context.Context, label string) ([]Issue, error) {
	issues, err := a.client.IssuesWithLabel(ctx, label)
	if err != nil {
		return nil, err
	}
	return convertAll(issues), nil
}

func (a *githubAdapter) IssuesWithBothLabels(ctx context.Context, ready, inProgress string) ([]Issue, error) {
	issues, err := a.client.IssuesWithBothLabels(ctx, ready, inProgress)
	if err != nil {
		return nil, err
	}
	return convertAll(issues), nil
}

func (a *githubAdapter) Issue(ctx context.Context, number int) (Issue, error) {
	issue, err := a.client.Issue(ctx, number)
	if err != nil {
		return Issue{}, err
	}
	return convert(issue), nil
}

func (a *githubAdapter) AddLabel(ctx context.Context, number int, label string) error {
	return a.client.AddLabel(ctx, number, label)
}

func (a *githubAdapter) RemoveLabel(ctx context.Context, number int, label string) error {
	return a.client.RemoveLabel(ctx, number, label)
}

func (a *githubAdapter) ReplaceLabel(ctx context.Context, number int, from, to string) error {
	return a.client.ReplaceLabel(ctx, number, from, to)
}

func (a *githubAdapter) CheckPRMerged(ctx context.Context, number int) (bool, bool, error) {
	return a.client.CheckPRMerged(ctx, number)
}

func convert(issue tracker.Issue) Issue {
	return Issue{
		Number:  issue.Number,
		Title:   issue.Title,
		Body:    issue.Body,
		HTMLURL: issue.HTMLURL,
		Labels:  issue.Labels,
	}
}

func convertAll(issues []tracker.Issue) []Issue {
	out := make([]Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, convert(i))
	}
	return out
}

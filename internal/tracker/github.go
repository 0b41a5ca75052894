// Package tracker adapts the GitHub issues API to the narrow operations
// pleb needs: list/read issues by label, add/remove/replace labels, and
// check whether an issue's pull request has merged.
package tracker

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	gogithub "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// Issue is the subset of GitHub issue fields the orchestrator needs.
type Issue struct {
	Number  int
	Title   string
	Body    string
	HTMLURL string
	Labels  []string
}

// GitHub talks to one owner/repo on github.com or a GitHub Enterprise host.
type GitHub struct {
	client *gogithub.Client
	owner  string
	repo   string
}

// New builds a GitHub adapter from an owner, repo, API token, and optional
// enterprise host (empty or "github.com" for the public API).
func New(owner, repo, token, host string) (*GitHub, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	client := gogithub.NewClient(tc)

	if host != "" && host != "github.com" {
		base := fmt.Sprintf("https://%s/api/v3/", host)
		upload := fmt.Sprintf("https://%s/api/uploads/", host)
		var err error
		client, err = client.WithEnterpriseURLs(base, upload)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URLs: %w", err)
		}
	}

	return &GitHub{client: client, owner: owner, repo: repo}, nil
}

// IssuesWithLabel lists open issues carrying the given label.
func (g *GitHub) IssuesWithLabel(ctx context.Context, label string) ([]Issue, error) {
	opts := &gogithub.IssueListByRepoOptions{
		Labels: []string{label},
		State:  "open",
		ListOptions: gogithub.ListOptions{
			PerPage: 100,
		},
	}

	var out []Issue
	for {
		issues, resp, err := g.client.Issues.ListByRepo(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing issues with label %q: %w", label, err)
		}
		for _, iss := range issues {
			if iss.IsPullRequest() {
				continue
			}
			out = append(out, convertIssue(iss))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// IssuesWithBothLabels lists open issues carrying both ready and inProgress
// labels at once — the dual-label crash signature that `restore` looks
// for, generalizing the orphan-recovery sweep the teacher runs on startup.
func (g *GitHub) IssuesWithBothLabels(ctx context.Context, ready, inProgress string) ([]Issue, error) {
	opts := &gogithub.IssueListByRepoOptions{
		Labels: []string{ready, inProgress},
		State:  "open",
		ListOptions: gogithub.ListOptions{
			PerPage: 100,
		},
	}

	var out []Issue
	for {
		issues, resp, err := g.client.Issues.ListByRepo(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing issues with labels %q+%q: %w", ready, inProgress, err)
		}
		for _, iss := range issues {
			if iss.IsPullRequest() {
				continue
			}
			out = append(out, convertIssue(iss))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// Issue fetches a single issue by number.
func (g *GitHub) Issue(ctx context.Context, number int) (Issue, error) {
	iss, _, err := g.client.Issues.Get(ctx, g.owner, g.repo, number)
	if err != nil {
		return Issue{}, fmt.Errorf("getting issue #%d: %w", number, err)
	}
	return convertIssue(iss), nil
}

// AddLabel applies a label to an issue.
func (g *GitHub) AddLabel(ctx context.Context, number int, label string) error {
	_, _, err := g.client.Issues.AddLabelsToIssue(ctx, g.owner, g.repo, number, []string{label})
	if err != nil {
		return fmt.Errorf("adding label %q to issue #%d: %w", label, number, err)
	}
	return nil
}

// RemoveLabel removes a label from an issue. It tolerates the label
// already being absent (a 404 from GitHub), matching the spec's
// 404-tolerant remove contract.
func (g *GitHub) RemoveLabel(ctx context.Context, number int, label string) error {
	resp, err := g.client.Issues.RemoveLabelForIssue(ctx, g.owner, g.repo, number, label)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil
		}
		return fmt.Errorf("removing label %q from issue #%d: %w", label, number, err)
	}
	return nil
}

// ReplaceLabel removes `from` and adds `to`, implemented as add-then-remove
// so a crash between the two calls always leaves at least one managed
// label present rather than none, matching the spec's invariant that an
// issue never silently loses its managed label mid-transition.
func (g *GitHub) ReplaceLabel(ctx context.Context, number int, from, to string) error {
	if err := g.AddLabel(ctx, number, to); err != nil {
		return err
	}
	return g.RemoveLabel(ctx, number, from)
}

// CheckPRMerged looks for an open or merged pull request whose head branch
// matches the "{number}-*" prefix convention and reports whether one was
// found and, if so, whether it has merged. The two booleans mirror the
// spec's Option<bool>: (found=false, _) means "no matching PR exists yet".
func (g *GitHub) CheckPRMerged(ctx context.Context, number int) (found bool, merged bool, err error) {
	prefix := strconv.Itoa(number) + "-"

	opts := &gogithub.PullRequestListOptions{
		State:     "all",
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}
	for {
		prs, resp, listErr := g.client.PullRequests.List(ctx, g.owner, g.repo, opts)
		if listErr != nil {
			return false, false, fmt.Errorf("listing pull requests for issue #%d: %w", number, listErr)
		}
		for _, pr := range prs {
			head := pr.GetHead().GetRef()
			if !strings.HasPrefix(head, prefix) {
				continue
			}
			// The list endpoint does not fill in "merged"; merged_at is set
			// for every merged pull request.
			return true, pr.GetMerged() || pr.MergedAt != nil, nil
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return false, false, nil
}

func convertIssue(iss *gogithub.Issue) Issue {
	labels := make([]string, 0, len(iss.Labels))
	for _, l := range iss.Labels {
		labels = append(labels, l.GetName())
	}
	return Issue{
		Number:  iss.GetNumber(),
		Title:   iss.GetTitle(),
		Body:    iss.GetBody(),
		HTMLURL: iss.GetHTMLURL(),
		Labels:  labels,
	}
}

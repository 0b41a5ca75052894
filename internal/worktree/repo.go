package worktree

import (
	"context"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// EnsureRepo clones cloneURL into repoPath if it is not already present,
// using token for HTTPS authentication when non-empty. If repoPath already
// contains a git repository, EnsureRepo is a no-op. This is the only
// operation that uses go-git directly: go-git has no support for linked
// worktrees, so everything below operates on the base clone with the `git`
// CLI instead.
func EnsureRepo(ctx context.Context, repoPath, cloneURL, token string) error {
	if _, err := os.Stat(repoPath); err == nil {
		if _, err := gogit.PlainOpen(repoPath); err == nil {
			return nil
		}
	}

	cloneOpts := &gogit.CloneOptions{
		URL: cloneURL,
	}
	if token != "" {
		cloneOpts.Auth = &githttp.BasicAuth{
			Username: "pleb",
			Password: token,
		}
	}

	if _, err := gogit.PlainCloneContext(ctx, repoPath, false, cloneOpts); err != nil {
		return fmt.Errorf("cloning %s into %s: %w", cloneURL, repoPath, err)
	}
	return nil
}

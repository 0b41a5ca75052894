// Command pleb watches a GitHub label, provisions a git worktree and tmux
// window per matching issue, and drives the issue through a label-based
// state machine as a coding agent works it.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

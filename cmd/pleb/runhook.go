package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/hookproto"
	"github.com/pleborg/pleb/internal/worktree"
)

// claudeHookPayload is the subset of the JSON Claude Code writes to a
// hook's stdin that pleb needs: enough to recover which issue this
// worktree belongs to. Claude Code hooks don't carry pleb's issue number
// directly, so it's recovered from the worktree's working directory,
// which pleb always names after the issue (see worktree.Path).
type claudeHookPayload struct {
	CWD string `json:"cwd"`
}

func newRunHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "cc-run-hook <event-name>",
		Short:  "Forward a Claude Code hook event to the watch daemon",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventName := args[0]

			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading hook payload from stdin: %w", err)
			}

			var payload claudeHookPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("decoding hook payload: %w", err)
			}

			number, err := worktree.IssueNumberFromPath(payload.CWD)
			if err != nil {
				return fmt.Errorf("identifying issue from hook working directory: %w", err)
			}

			a, err := newApp()
			if err != nil {
				return err
			}

			msg := hookproto.HookMessage{
				EventName:   eventName,
				IssueNumber: number,
				Payload:     json.RawMessage(raw),
			}
			return hookproto.Send(a.layout.SocketPath(), msg)
		},
	}
}

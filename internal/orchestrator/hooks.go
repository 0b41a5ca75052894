package orchestrator

import (
	"context"
	"fmt"

	"github.com/pleborg/pleb/internal/config"
	"github.com/pleborg/pleb/internal/hookproto"
	"github.com/pleborg/pleb/internal/logging"
	"github.com/pleborg/pleb/internal/state"
)

// NewHookHandler builds the hookproto.Handler the daemon registers on its
// Unix socket server. It implements the spec's event table: Stop moves a
// Working issue to Waiting (the agent is done and wants review), and
// UserPromptSubmit moves a Waiting issue back to Working (a human replied).
// PostToolUse and PermissionRequest are logged only. An event naming an
// issue pleb isn't tracking, or an unrecognized event name, is logged and
// acknowledged rather than treated as an error — a future agent version
// sending a hook pleb doesn't know about must never break the connection.
func NewHookHandler(cfg *config.Config, issues IssueTracker, tracker *state.Tracker, j Journal) hookproto.Handler {
	return func(ctx context.Context, msg hookproto.HookMessage) error {
		log := logging.WithIssue(msg.IssueNumber).With("event_name", msg.EventName)

		switch msg.EventName {
		case "Stop":
			return transitionOnHook(ctx, cfg, issues, tracker, j, msg.IssueNumber, state.Working, state.Waiting,
				cfg.Labels.Working, cfg.Labels.Waiting, "agent stopped, awaiting review")
		case "UserPromptSubmit":
			return transitionOnHook(ctx, cfg, issues, tracker, j, msg.IssueNumber, state.Waiting, state.Working,
				cfg.Labels.Waiting, cfg.Labels.Working, "human replied, agent resumed")
		case "PostToolUse", "PermissionRequest":
			log.Info("hook event observed")
			return nil
		default:
			log.Info("unrecognized hook event, ignoring")
			return nil
		}
	}
}

func transitionOnHook(ctx context.Context, cfg *config.Config, issues IssueTracker, tracker *state.Tracker, j Journal,
	issueNumber int, from, to state.PlebState, fromLabel, toLabel, detail string) error {
	current, err := tracker.Get(issueNumber)
	if err != nil {
		logging.WithIssue(issueNumber).Info("hook event for an untracked issue, ignoring", "error", err)
		return nil
	}
	if current.State != from {
		// Already in the target state, or moved on by a concurrent sweep
		// between the hook firing and this handler running; not an error.
		return nil
	}

	if err := tracker.Transition(issueNumber, to); err != nil {
		return err
	}
	if err := issues.ReplaceLabel(ctx, issueNumber, fromLabel, toLabel); err != nil {
		return fmt.Errorf("replacing label for issue #%d: %w", issueNumber, err)
	}
	if j != nil {
		_ = j.Record(ctx, issueNumber, "hook", detail)
	}
	return nil
}

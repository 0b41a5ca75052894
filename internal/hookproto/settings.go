package hookproto

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ClaudeSettings is the subset of .claude/settings.json this package
// writes: a map from hook event name to the matchers and commands that
// fire on it. The shape follows Claude Code's matcher-based hook format.
type ClaudeSettings struct {
	Hooks map[string][]HookMatcherEntry `json:"hooks"`
}

// HookMatcherEntry groups a tool matcher (nil for events that aren't
// tool-scoped, like Stop) with the commands that run for it.
type HookMatcherEntry struct {
	Matcher *string       `json:"matcher,omitempty"`
	Hooks   []HookCommand `json:"hooks"`
}

// HookCommand is one shell command invocation registered for an event.
type HookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// ManagedEvents lists every event pleb registers a hook for. The four
// names match the spec's event table: Stop and UserPromptSubmit drive
// state transitions; PostToolUse and PermissionRequest are logged only.
var ManagedEvents = []string{"Stop", "UserPromptSubmit", "PostToolUse", "PermissionRequest"}

// GenerateSettings builds the hooks map registering `plebBin cc-run-hook
// <EventName>` for every managed event.
func GenerateSettings(plebBin string) ClaudeSettings {
	hooks := make(map[string][]HookMatcherEntry, len(ManagedEvents))
	for _, event := range ManagedEvents {
		hooks[event] = []HookMatcherEntry{
			{
				Hooks: []HookCommand{
					{Type: "command", Command: fmt.Sprintf("%s cc-run-hook %s", plebBin, event)},
				},
			},
		}
	}
	return ClaudeSettings{Hooks: hooks}
}

// WriteSettings marshals settings and writes it to
// "<worktreeDir>/.claude/settings.json".
func WriteSettings(worktreeDir string, settings ClaudeSettings) error {
	dir := filepath.Join(worktreeDir, ".claude")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .claude directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling claude settings: %w", err)
	}

	path := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// MergeWithExisting reads any settings.json already present in worktreeDir
// and merges pleb's managed hook entries into it, preserving any
// non-managed keys (e.g. a repo-local PreToolUse hook the project already
// committed) rather than clobbering the whole file.
func MergeWithExisting(worktreeDir string, settings ClaudeSettings) error {
	path := filepath.Join(worktreeDir, ".claude", "settings.json")

	existing := map[string]json.RawMessage{}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("parsing existing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading existing %s: %w", path, err)
	}

	existingHooks := map[string][]HookMatcherEntry{}
	if raw, ok := existing["hooks"]; ok {
		if err := json.Unmarshal(raw, &existingHooks); err != nil {
			return fmt.Errorf("parsing existing hooks: %w", err)
		}
	}
	for event, entries := range settings.Hooks {
		existingHooks[event] = entries
	}

	mergedHooks, err := json.Marshal(existingHooks)
	if err != nil {
		return fmt.Errorf("marshaling merged hooks: %w", err)
	}
	existing["hooks"] = mergedHooks

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling merged settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating .claude directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// SlashCommand is one `/pleb-*` command file installed into a worktree's
// .claude/commands directory.
type SlashCommand struct {
	Name                 string
	Body                 string
	RequiresConfirmation bool
}

// SlashCommands returns the four slash commands named in the spec.
func SlashCommands() []SlashCommand {
	return []SlashCommand{
		{
			Name: "pleb-shipit",
			Body: "Open a pull request for the current branch that closes this issue, " +
				"then stop and wait for review feedback.\n",
		},
		{
			Name: "pleb-abandon",
			Body: "Stop working this issue. Leave the branch and worktree as-is for a " +
				"human to inspect; do not open a pull request.\n",
		},
		{
			Name: "pleb-status",
			Body: "Summarize the current state of this issue: what's done, what's left, " +
				"and whether you're blocked on a question.\n",
		},
		{
			Name: "pleb-cleanup",
			Body: "Confirm with the user before removing this issue's worktree and window. " +
				"Only proceed once they explicitly approve.\n",
			RequiresConfirmation: true,
		},
	}
}

// WriteSlashCommands writes each slash command to
// "<worktreeDir>/.claude/commands/<name>.md".
func WriteSlashCommands(worktreeDir string) error {
	dir := filepath.Join(worktreeDir, ".claude", "commands")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating commands directory: %w", err)
	}
	for _, cmd := range SlashCommands() {
		path := filepath.Join(dir, cmd.Name+".md")
		if err := os.WriteFile(path, []byte(cmd.Body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

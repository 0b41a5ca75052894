package hookproto

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateSettingsCoversManagedEvents(t *testing.T) {
	settings := GenerateSettings("pleb")
	for _, event := range ManagedEvents {
		entries, ok := settings.Hooks[event]
		if !ok || len(entries) != 1 {
			t.Fatalf("expected exactly one entry for event %s, got %v", event, entries)
		}
		want := "pleb cc-run-hook " + event
		if entries[0].Hooks[0].Command != want {
			t.Errorf("expected command %q, got %q", want, entries[0].Hooks[0].Command)
		}
	}
}

func TestWriteAndReadSettings(t *testing.T) {
	dir := t.TempDir()
	settings := GenerateSettings("pleb")

	if err := WriteSettings(dir, settings); err != nil {
		t.Fatalf("WriteSettings failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".claude", "settings.json"))
	if err != nil {
		t.Fatalf("reading settings.json: %v", err)
	}

	var got ClaudeSettings
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshaling settings.json: %v", err)
	}
	if len(got.Hooks) != len(ManagedEvents) {
		t.Errorf("expected %d hook entries, got %d", len(ManagedEvents), len(got.Hooks))
	}
}

func TestMergeWithExistingPreservesOtherKeys(t *testing.T) {
	dir := t.TempDir()
	claudeDir := filepath.Join(dir, ".claude")
	os.MkdirAll(claudeDir, 0o755)

	preexisting := `{"theme": "dark", "hooks": {"PreToolUse": [{"hooks": [{"type": "command", "command": "lint.sh"}]}]}}`
	if err := os.WriteFile(filepath.Join(claudeDir, "settings.json"), []byte(preexisting), 0o644); err != nil {
		t.Fatalf("seeding settings.json: %v", err)
	}

	if err := MergeWithExisting(dir, GenerateSettings("pleb")); err != nil {
		t.Fatalf("MergeWithExisting failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(claudeDir, "settings.json"))
	if err != nil {
		t.Fatalf("reading merged settings.json: %v", err)
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		t.Fatalf("unmarshaling merged settings.json: %v", err)
	}
	if _, ok := merged["theme"]; !ok {
		t.Error("expected pre-existing non-hook key to survive the merge")
	}

	var hooks map[string][]HookMatcherEntry
	if err := json.Unmarshal(merged["hooks"], &hooks); err != nil {
		t.Fatalf("unmarshaling merged hooks: %v", err)
	}
	if _, ok := hooks["PreToolUse"]; !ok {
		t.Error("expected pre-existing PreToolUse hook to survive the merge")
	}
	if _, ok := hooks["Stop"]; !ok {
		t.Error("expected managed Stop hook to be added by the merge")
	}
}

func TestWriteSlashCommands(t *testing.T) {
	dir := t.TempDir()
	if err := WriteSlashCommands(dir); err != nil {
		t.Fatalf("WriteSlashCommands failed: %v", err)
	}

	for _, cmd := range SlashCommands() {
		path := filepath.Join(dir, ".claude", "commands", cmd.Name+".md")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected slash command file %s to exist: %v", path, err)
		}
	}
}

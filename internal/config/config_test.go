package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Labels.Ready != "pleb:ready" {
		t.Errorf("expected labels.ready=pleb:ready, got %s", cfg.Labels.Ready)
	}
	if cfg.Claude.Command != "claude" {
		t.Errorf("expected claude.command=claude, got %s", cfg.Claude.Command)
	}
	if cfg.Watch.PollInterval != 30*time.Second {
		t.Errorf("expected watch.poll_interval=30s, got %v", cfg.Watch.PollInterval)
	}
	if cfg.Provision.KeystrokeGap != 100*time.Millisecond {
		t.Errorf("expected provision.keystroke_gap=100ms, got %v", cfg.Provision.KeystrokeGap)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Labels.Ready != "pleb:ready" {
		t.Errorf("expected default labels when no config file present, got %s", cfg.Labels.Ready)
	}
}

func TestLoadWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	toml := `
[github]
owner = "acme"
repo = "widgets"
token = "tok-123"

[labels]
ready = "custom:ready"
provisioning = "custom:provisioning"
`
	if err := os.WriteFile(filepath.Join(root, ".pleb.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GitHub.Owner != "acme" || cfg.GitHub.Repo != "widgets" {
		t.Errorf("expected github owner/repo from discovered config, got %+v", cfg.GitHub)
	}
	if cfg.Labels.Ready != "custom:ready" {
		t.Errorf("expected overridden labels.ready, got %s", cfg.Labels.Ready)
	}
	// Untouched fields retain their defaults.
	if cfg.Labels.Finished != "pleb:finished" {
		t.Errorf("expected default labels.finished to survive partial override, got %s", cfg.Labels.Finished)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	toml := `
[github]
owner = "acme"
repo = "widgets"
`
	if err := os.WriteFile(filepath.Join(dir, ".pleb.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PLEB_GITHUB_TOKEN", "env-token")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GitHub.Token != "env-token" {
		t.Errorf("expected PLEB_GITHUB_TOKEN to override config, got %q", cfg.GitHub.Token)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing github owner/repo/token")
	}

	cfg.GitHub.Owner = "acme"
	cfg.GitHub.Repo = "widgets"
	cfg.GitHub.Token = "tok"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg.Watch.PollInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero poll interval")
	}
}

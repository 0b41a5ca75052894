// Package config loads pleb's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is pleb's top-level configuration, loaded from a single TOML file
// (conventionally ".pleb.toml") discovered by walking upward from the
// working directory.
type Config struct {
	GitHub    GitHubConfig    `mapstructure:"github"`
	Labels    LabelsConfig    `mapstructure:"labels"`
	Claude    ClaudeConfig    `mapstructure:"claude"`
	Paths     PathsConfig     `mapstructure:"paths"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Prompts   PromptsConfig   `mapstructure:"prompts"`
	Provision ProvisionConfig `mapstructure:"provision"`
}

// GitHubConfig identifies the repository pleb watches and how it
// authenticates to the GitHub API.
type GitHubConfig struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
	Token string `mapstructure:"token"`
	Host  string `mapstructure:"host"` // empty or "github.com" for the public API
}

// LabelsConfig maps pleb's managed states onto concrete label strings.
type LabelsConfig struct {
	Ready        string `mapstructure:"ready"`
	Provisioning string `mapstructure:"provisioning"`
	Waiting      string `mapstructure:"waiting"`
	Working      string `mapstructure:"working"`
	Done         string `mapstructure:"done"`
	Finished     string `mapstructure:"finished"`
	InProgress   string `mapstructure:"in_progress"` // dangling marker checked by restore
}

// ClaudeConfig controls how the coding agent is invoked inside a window.
type ClaudeConfig struct {
	Command string   `mapstructure:"command"` // binary to launch, e.g. "claude"
	Args    []string `mapstructure:"args"`
}

// PathsConfig controls where pleb keeps its working state.
type PathsConfig struct {
	RepoRoot  string `mapstructure:"repo_root"`  // where the bare/base clone lives
	Worktrees string `mapstructure:"worktrees"`  // parent directory for per-issue worktrees
	DaemonDir string `mapstructure:"daemon_dir"` // pleb.pid, pleb.log, pleb.sock, localized media
}

// WatchConfig controls the orchestrator's poll cadence.
type WatchConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// PromptsConfig names the template files rendered into each issue's
// worktree before the agent is launched.
type PromptsConfig struct {
	Directory string `mapstructure:"directory"` // empty uses embedded defaults
	Filename  string `mapstructure:"filename"`  // e.g. "prompt.md.tmpl"
}

// ProvisionConfig lists the hook commands run, one keystroke send apart, in
// the freshly created window before the agent launches.
type ProvisionConfig struct {
	Hooks        []string      `mapstructure:"hooks"`
	KeystrokeGap time.Duration `mapstructure:"keystroke_gap"`
}

// DefaultConfig returns sensible defaults; Load overlays a TOML file (and
// PLEB_* environment variables) on top of these.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		GitHub: GitHubConfig{},
		Labels: LabelsConfig{
			Ready:        "pleb:ready",
			Provisioning: "pleb:provisioning",
			Waiting:      "pleb:waiting",
			Working:      "pleb:working",
			Done:         "pleb:done",
			Finished:     "pleb:finished",
			InProgress:   "pleb:in-progress",
		},
		Claude: ClaudeConfig{
			Command: "claude",
			Args:    []string{},
		},
		Paths: PathsConfig{
			RepoRoot:  ".",
			Worktrees: filepath.Join(homeDir, ".pleb", "worktrees"),
			DaemonDir: filepath.Join(homeDir, ".pleb", "run"),
		},
		Watch: WatchConfig{
			PollInterval: 30 * time.Second,
		},
		Prompts: PromptsConfig{
			Filename: "prompt.md.tmpl",
		},
		Provision: ProvisionConfig{
			Hooks:        []string{},
			KeystrokeGap: 100 * time.Millisecond,
		},
	}
}

// Load discovers ".pleb.toml" by walking upward from the working directory,
// overlays it and PLEB_* environment variables onto the defaults, and
// returns the resulting Config. If no config file is found, defaults are
// returned unmodified (matching the teacher's "missing file means
// defaults" convention).
func Load(startDir string) (*Config, error) {
	cfg := DefaultConfig()

	path, err := discover(startDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("PLEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows, so register the
	// scalar keys; otherwise an override for a key absent from the file
	// would never reach Unmarshal.
	for _, key := range []string{
		"github.owner", "github.repo", "github.token", "github.host",
		"labels.ready", "labels.provisioning", "labels.waiting", "labels.working",
		"labels.done", "labels.finished", "labels.in_progress", "claude.command",
		"paths.repo_root", "paths.worktrees", "paths.daemon_dir", "watch.poll_interval",
		"prompts.directory", "prompts.filename", "provision.keystroke_gap",
	} {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// discover walks upward from startDir looking for ".pleb.toml". It returns
// "" (not an error) if no config file is found anywhere above startDir.
func discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving start directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ".pleb.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Validate checks the configuration for errors that should stop pleb from
// starting at all (a Configuration-fatal error, per the error taxonomy).
func (c *Config) Validate() error {
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		return fmt.Errorf("github.owner and github.repo are required")
	}
	if c.GitHub.Token == "" {
		return fmt.Errorf("github.token is required (set [github].token or PLEB_GITHUB_TOKEN)")
	}
	if c.Labels.Ready == "" || c.Labels.Provisioning == "" {
		return fmt.Errorf("labels.ready and labels.provisioning are required")
	}
	if c.Watch.PollInterval <= 0 {
		return fmt.Errorf("watch.poll_interval must be positive")
	}
	if c.Paths.DaemonDir == "" {
		return fmt.Errorf("paths.daemon_dir is required")
	}
	return nil
}

// DefaultConfigPath returns the conventional config file location inside
// startDir: "<startDir>/.pleb.toml".
func DefaultConfigPath(startDir string) string {
	return filepath.Join(startDir, ".pleb.toml")
}

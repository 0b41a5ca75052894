package worktree

import "testing"

func TestPathDeterministic(t *testing.T) {
	p1 := Path("/base", 42, "fix-bug")
	p2 := Path("/base", 42, "fix-bug")
	if p1 != p2 {
		t.Errorf("expected deterministic path, got %q vs %q", p1, p2)
	}
	if p1 != "/base/42-fix-bug" {
		t.Errorf("unexpected path: %q", p1)
	}
}

func TestPathWithoutSlug(t *testing.T) {
	got := Path("/base", 7, "")
	if got != "/base/7" {
		t.Errorf("unexpected path: %q", got)
	}
}

func TestBranch(t *testing.T) {
	if got := Branch(42); got != "pleb/issue-42" {
		t.Errorf("unexpected branch name: %q", got)
	}
}

func TestIssueNumberFromPath(t *testing.T) {
	cases := map[string]int{
		"/base/42":         42,
		"/base/42-fix-bug": 42,
		"/base/7":          7,
	}
	for path, want := range cases {
		got, err := IssueNumberFromPath(path)
		if err != nil {
			t.Fatalf("IssueNumberFromPath(%q) failed: %v", path, err)
		}
		if got != want {
			t.Errorf("IssueNumberFromPath(%q) = %d, want %d", path, got, want)
		}
	}
}

func TestIssueNumberFromPathInvalid(t *testing.T) {
	if _, err := IssueNumberFromPath("/base/not-a-number"); err == nil {
		t.Error("expected an error for a non-numeric worktree directory name")
	}
}

func TestParsePorcelain(t *testing.T) {
	output := `worktree /base/repo
HEAD abcdef1234567890
branch refs/heads/main

worktree /base/42-fix-bug
HEAD 1234567890abcdef
branch refs/heads/pleb/issue-42

`
	entries := parsePorcelain(output)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != "/base/repo" || entries[0].Branch != "main" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Path != "/base/42-fix-bug" || entries[1].Branch != "pleb/issue-42" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestIsTransientWorktreeError(t *testing.T) {
	if !isTransientWorktreeError("fatal: Unable to read current working directory: commondir file corrupt") {
		t.Error("expected commondir error to be transient")
	}
	if !isTransientWorktreeError("fatal: bad gitdir file") {
		t.Error("expected gitdir error to be transient")
	}
	if isTransientWorktreeError("fatal: branch already exists") {
		t.Error("expected unrelated error to not be transient")
	}
}

package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testContext() IssueContext {
	return IssueContext{
		IssueNumber:  42,
		Title:        "fix the thing",
		Body:         "it's broken",
		BranchName:   "pleb/issue-42",
		WorktreePath: "/tmp/42-fix-the-thing",
		HTMLURL:      "https://github.com/acme/widgets/issues/42",
	}
}

func TestRenderEmbeddedDefault(t *testing.T) {
	r := NewRenderer("")
	out, err := r.Render("", testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "issue #42") {
		t.Errorf("expected rendered output to include issue number, got:\n%s", out)
	}
	if !strings.Contains(out, "fix the thing") {
		t.Errorf("expected rendered output to include title, got:\n%s", out)
	}
}

func TestRenderCustomDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom.md.tmpl"), []byte("Issue {{.IssueNumber}}: {{.Title}}"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	r := NewRenderer(dir)
	out, err := r.Render("custom.md.tmpl", testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "Issue 42: fix the thing" {
		t.Errorf("unexpected render: %q", out)
	}
}

func TestRenderStrictModeFailsOnMissingField(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.md.tmpl"), []byte("{{.NotAField}}"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	r := NewRenderer(dir)
	if _, err := r.Render("bad.md.tmpl", testContext()); err == nil {
		t.Fatal("expected render to fail on undefined field reference")
	}
}

func TestRenderToFile(t *testing.T) {
	r := NewRenderer("")
	dest := filepath.Join(t.TempDir(), "nested", "prompt.md")

	path, err := r.RenderToFile("", testContext(), dest)
	if err != nil {
		t.Fatalf("RenderToFile failed: %v", err)
	}
	if path != dest {
		t.Errorf("expected returned path %q, got %q", dest, path)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading rendered file: %v", err)
	}
	if !strings.Contains(string(content), "issue #42") {
		t.Errorf("unexpected file content: %s", content)
	}
}

// Package prompt renders the markdown brief placed in front of the coding
// agent at provisioning time. Rendering is strict: a template referencing
// a field IssueContext doesn't have fails at render time rather than
// silently producing an empty string.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/prompt.md.tmpl
var embeddedTemplates embed.FS

// defaultTemplateName is the file read from the embedded FS when no custom
// prompt directory is configured.
const defaultTemplateName = "prompt.md.tmpl"

// IssueContext is the data made available to a prompt template. Because it
// is a typed struct rather than a map, text/template already rejects a
// reference to an undefined field at Execute time — the spec's "strict
// mode" requirement falls out of the language rather than needing extra
// validation code.
type IssueContext struct {
	IssueNumber  int
	Title        string
	Body         string
	BranchName   string
	WorktreePath string
	HTMLURL      string
}

var funcMap = template.FuncMap{
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
}

// Renderer renders prompt templates from a custom directory, falling back
// to the embedded default when none is configured.
type Renderer struct {
	dir string
}

// NewRenderer returns a Renderer. If dir is empty, the embedded default
// template is used.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Render renders filename (or the embedded default, if filename is empty)
// with ctx and returns the resulting markdown.
func (r *Renderer) Render(filename string, ctx IssueContext) (string, error) {
	if filename == "" {
		filename = defaultTemplateName
	}

	content, err := r.read(filename)
	if err != nil {
		return "", fmt.Errorf("reading prompt template %s: %w", filename, err)
	}

	tmpl, err := template.New(filename).Funcs(funcMap).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("parsing prompt template %s: %w", filename, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("rendering prompt template %s: %w", filename, err)
	}

	return buf.String(), nil
}

// RenderToFile renders a prompt and writes it to destPath, returning the
// path for convenience at the call site (e.g. passing it on to the agent's
// launch command).
func (r *Renderer) RenderToFile(filename string, ctx IssueContext, destPath string) (string, error) {
	rendered, err := r.Render(filename, ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("creating prompt directory: %w", err)
	}
	if err := os.WriteFile(destPath, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("writing prompt file: %w", err)
	}
	return destPath, nil
}

func (r *Renderer) read(filename string) ([]byte, error) {
	if r.dir == "" {
		return fs.ReadFile(embeddedTemplates, filepath.Join("templates", filename))
	}
	return os.ReadFile(filepath.Join(r.dir, filename))
}

package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelRendersRows(t *testing.T) {
	fetch := func(ctx context.Context) ([]Row, error) {
		return []Row{{IssueNumber: 42, Title: "fix the thing", State: "working", WindowName: "issue-42"}}, nil
	}

	m := NewModel(fetch)
	view := m.View()
	if !strings.Contains(view, "pleb — managed issues") {
		t.Errorf("expected title in view, got %q", view)
	}

	updated, _ := m.Update(rowsMsg{rows: []Row{{IssueNumber: 42, Title: "fix the thing", State: "working", WindowName: "issue-42"}}})
	view = updated.(Model).View()
	if !strings.Contains(view, "#42") {
		t.Errorf("expected issue number in view, got %q", view)
	}
	if !strings.Contains(view, "issue-42") {
		t.Errorf("expected window name in view, got %q", view)
	}
}

func TestModelRendersFetchError(t *testing.T) {
	m := NewModel(func(ctx context.Context) ([]Row, error) { return nil, nil })
	updated, _ := m.Update(rowsMsg{err: errors.New("boom")})
	view := updated.(Model).View()
	if !strings.Contains(view, "refresh failed") {
		t.Errorf("expected refresh error surfaced in view, got %q", view)
	}
}

func TestModelQuitsOnQ(t *testing.T) {
	m := NewModel(func(ctx context.Context) ([]Row, error) { return nil, nil })
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !updated.(Model).quitting {
		t.Error("expected quitting to be set after 'q'")
	}
	if cmd == nil {
		t.Error("expected a tea.Quit command")
	}
}

func TestModelEmptyRowsMessage(t *testing.T) {
	m := NewModel(func(ctx context.Context) ([]Row, error) { return nil, nil })
	view := m.View()
	if !strings.Contains(view, "no managed issues") {
		t.Errorf("expected empty-state message, got %q", view)
	}
}

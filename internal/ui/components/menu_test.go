package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMenuSkipsDisabledItems(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "CONTINUE", Disabled: true},
		{Label: "PATH"},
		{Label: "LOCKED", Disabled: true},
		{Label: "EXIT"},
	})
	if m.Selected != 1 {
		t.Fatalf("expected the first enabled item, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("expected down to skip the locked item, got %d", m.Selected)
	}
	m.Select(2)
	if m.Selected != 3 {
		t.Error("Select must ignore disabled items")
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	called := false
	m := NewMenu([]MenuItem{{Label: "GO", Action: func() tea.Cmd {
		called = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !called {
		t.Error("expected the action to run")
	}
}

func TestMenuViewShowsMarksAndDetails(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "CONTINUE", Mark: MarkNew, Detail: "What improves soil?"},
		{Label: "MISSIONS", Mark: MarkDone},
		{Label: "RESERVED", Disabled: true},
	})
	out := m.View()
	for _, want := range []string{"🌱 CONTINUE", "What improves soil?", "✓ MISSIONS", "🔒 RESERVED"} {
		if !strings.Contains(out, want) {
			t.Errorf("menu view missing %q", want)
		}
	}
}

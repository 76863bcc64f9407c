// Package reset asks for confirmation before clearing course progress.
package reset

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/router"
	"github.com/agrovision/academy/internal/screen"
	"github.com/agrovision/academy/internal/ui/components"
	"github.com/agrovision/academy/internal/ui/layout"
	"github.com/agrovision/academy/internal/ui/theme"
)

// confirmWord must be typed to reset.
const confirmWord = "yes"

// ResetScreen confirms a course reset. Points, level and badges are kept.
type ResetScreen struct {
	engine *academy.Engine
	input  components.TextInput
	done   bool
	errMsg string
}

var _ screen.Screen = (*ResetScreen)(nil)
var _ screen.KeyHintProvider = (*ResetScreen)(nil)

// New creates a new ResetScreen.
func New(engine *academy.Engine) *ResetScreen {
	return &ResetScreen{
		engine: engine,
		input:  components.NewTextInput(confirmWord, 8),
	}
}

func (s *ResetScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ResetScreen) Title() string {
	return "Reset Progress"
}

func (s *ResetScreen) KeyHints() []layout.KeyHint {
	if s.done {
		return []layout.KeyHint{{Key: "Enter", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *ResetScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		if s.done {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		if !strings.EqualFold(strings.TrimSpace(s.input.Value()), confirmWord) {
			s.input.Submit(false)
			s.errMsg = "Type \"" + confirmWord + "\" to confirm."
			return s, nil
		}
		s.engine.Reset(context.Background())
		s.input.Submit(true)
		s.done = true
		s.errMsg = ""
		return s, nil
	}

	if s.done {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ResetScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var lines []string
	if s.done {
		lines = append(lines,
			theme.Correct.Render("Progress reset."),
			"",
			theme.Body.Render("Your learning path starts again from the first lesson."),
			theme.Body.Render("Points, level and badges were kept."),
		)
	} else {
		lines = append(lines,
			theme.Incorrect.Render("⚠ Reset all learning progress?"),
			"",
			theme.Body.Render("Completed lessons will be cleared and the path locked again."),
			theme.Body.Render("Points, level and badges are kept."),
			"",
			"Type "+theme.Points.Render(confirmWord)+" to confirm: "+s.input.View(),
		)
		if s.errMsg != "" {
			lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
		}
	}

	card := components.Card(lipgloss.JoinVertical(lipgloss.Left, lines...), cw, theme.Error)
	return components.Center(card, width, height)
}

package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/catalog"
	"github.com/agrovision/academy/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector over a catalog question.
// Choosing only records the pick; grading is left to the caller.
type MultiChoice struct {
	Question  catalog.Question
	Selected  int
	Submitted bool
	Chosen    int
	Revealed  bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(q catalog.Question) MultiChoice {
	return MultiChoice{
		Question: q,
		Chosen:   -1,
	}
}

// Update handles keyboard navigation and selection. Letter keys pick the
// matching option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Question.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.Chosen = m.Selected
	default:
		for i, opt := range m.Question.Options {
			if key == opt.ID {
				m.Selected = i
				m.Submitted = true
				m.Chosen = i
				break
			}
		}
	}

	return m, nil
}

// ChosenOption returns the submitted option.
func (m MultiChoice) ChosenOption() (catalog.Option, bool) {
	if !m.Submitted || m.Chosen < 0 || m.Chosen >= len(m.Question.Options) {
		return catalog.Option{}, false
	}
	return m.Question.Options[m.Chosen], true
}

// Reveal marks the correct and chosen options in subsequent renders.
func (m *MultiChoice) Reveal() {
	m.Revealed = true
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question.Prompt) + "\n\n"

	for i, opt := range m.Question.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, opt.ID, opt.Text)

		var style lipgloss.Style
		switch {
		case m.Revealed && opt.Correct:
			style = theme.Correct
		case m.Revealed && i == m.Chosen:
			style = theme.Incorrect
		case m.Submitted && i == m.Chosen:
			style = theme.Selected
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		s += style.Render(line) + "\n"
	}

	return s
}

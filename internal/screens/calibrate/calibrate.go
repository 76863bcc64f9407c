// Package calibrate asks the farm profile questions and shows the
// resulting focus units before sending the learner to the course map.
package calibrate

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/calibration"
	"github.com/agrovision/academy/internal/catalog"
	"github.com/agrovision/academy/internal/router"
	"github.com/agrovision/academy/internal/screen"
	"github.com/agrovision/academy/internal/screens/coursemap"
	"github.com/agrovision/academy/internal/ui/components"
	"github.com/agrovision/academy/internal/ui/layout"
	"github.com/agrovision/academy/internal/ui/theme"
)

var optionKeys = []string{"a", "b", "c", "d"}

// CalibrateScreen walks the calibration questions one at a time.
type CalibrateScreen struct {
	engine    *academy.Engine
	questions []calibration.Question
	index     int
	answers   calibration.Answers
	choice    components.MultiChoice
	result    *calibration.Result
	errMsg    string
}

var _ screen.Screen = (*CalibrateScreen)(nil)
var _ screen.KeyHintProvider = (*CalibrateScreen)(nil)

// New creates a CalibrateScreen. A saved profile preselects its answers.
func New(engine *academy.Engine) *CalibrateScreen {
	s := &CalibrateScreen{
		engine:    engine,
		questions: engine.CalibrationQuestions(),
	}
	if p, ok := engine.Calibration(); ok {
		s.answers = p.Answers
	}
	s.ask()
	return s
}

// asChoice adapts a calibration question to the multiple-choice widget.
func asChoice(q calibration.Question) catalog.Question {
	opts := make([]catalog.Option, len(q.Choices))
	for i, c := range q.Choices {
		opts[i] = catalog.Option{ID: optionKeys[i], Text: c.Label}
	}
	return catalog.Question{Prompt: q.Prompt, Options: opts}
}

func (s *CalibrateScreen) ask() {
	q := s.questions[s.index]
	s.choice = components.NewMultiChoice(asChoice(q))
	prev := s.answers.Get(q.Field)
	for i, c := range q.Choices {
		if c.Value == prev {
			s.choice.Selected = i
		}
	}
}

func (s *CalibrateScreen) Init() tea.Cmd {
	return nil
}

func (s *CalibrateScreen) Title() string {
	return "Personalize Your Path"
}

func (s *CalibrateScreen) KeyHints() []layout.KeyHint {
	if s.result != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Open learning path"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "a/b", Description: "Answer"},
	}
	if s.index > 0 {
		hints = append(hints, layout.KeyHint{Key: "←", Description: "Previous"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *CalibrateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.result != nil {
		if kmsg.String() == "enter" {
			next := coursemap.New(s.engine)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
		return s, nil
	}

	if kmsg.String() == "left" {
		if s.index > 0 {
			s.index--
			s.ask()
		}
		return s, nil
	}

	s.choice, _ = s.choice.Update(kmsg)
	opt, ok := s.choice.ChosenOption()
	if !ok {
		return s, nil
	}

	q := s.questions[s.index]
	for i, key := range optionKeys[:len(q.Choices)] {
		if key == opt.ID {
			if err := s.answers.Set(q.Field, q.Choices[i].Value); err != nil {
				s.errMsg = err.Error()
				return s, nil
			}
		}
	}

	if s.index < len(s.questions)-1 {
		s.index++
		s.ask()
		return s, nil
	}

	res, err := s.engine.Calibrate(context.Background(), s.answers)
	if err != nil {
		s.errMsg = err.Error()
		s.ask()
		return s, nil
	}
	s.errMsg = ""
	s.result = &res
	return s, nil
}

func (s *CalibrateScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	if s.result == nil {
		b.WriteString(dim.Render(fmt.Sprintf("Question %d of %d", s.index+1, len(s.questions))))
		b.WriteString("\n\n")
		b.WriteString(s.choice.View())
	} else {
		b.WriteString(theme.Title.Render("🌾 Your learning plan"))
		b.WriteString("\n\n")
		if len(s.result.Profile.FocusUnits) == 0 {
			b.WriteString(theme.Body.Render("Your farm is in good shape. Follow the full course."))
			b.WriteString("\n")
		}
		for _, id := range s.result.Profile.FocusUnits {
			if u, ok := s.engine.Catalog().Unit(id); ok {
				b.WriteString(theme.Body.Render("▸ " + u.Title))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		if s.result.Awarded {
			b.WriteString(theme.Points.Render(fmt.Sprintf("+%d points earned!", calibration.Bonus)))
		} else {
			b.WriteString(dim.Render("Profile updated."))
		}
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	return components.Center(components.Card(b.String(), cw, theme.Border), width, height)
}

// Package scan walks through the crop-scan form, crediting each step.
package scan

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/scans"
	"github.com/agrovision/academy/internal/screen"
	"github.com/agrovision/academy/internal/ui/components"
	"github.com/agrovision/academy/internal/ui/layout"
	"github.com/agrovision/academy/internal/ui/theme"
)

var stepLabels = map[scans.Step]string{
	scans.StepBegin:    "Start a new scan",
	scans.StepPhotos:   "Upload leaf photos",
	scans.StepLocation: "Add field location",
	scans.StepProfile:  "Complete farmer profile",
	scans.StepSubmit:   "Submit for analysis",
}

// ScanScreen applies the scan steps in form order.
type ScanScreen struct {
	engine *academy.Engine
	steps  []scans.Step
	next   int
	total  int
	errMsg string
}

var _ screen.Screen = (*ScanScreen)(nil)
var _ screen.KeyHintProvider = (*ScanScreen)(nil)

// New creates a new ScanScreen.
func New(engine *academy.Engine) *ScanScreen {
	return &ScanScreen{
		engine: engine,
		steps:  scans.Steps(),
		total:  engine.State().TotalScans,
	}
}

func (s *ScanScreen) Init() tea.Cmd {
	return nil
}

func (s *ScanScreen) Title() string {
	return "Crop Scan"
}

func (s *ScanScreen) finished() bool {
	return s.next >= len(s.steps)
}

func (s *ScanScreen) KeyHints() []layout.KeyHint {
	if s.finished() {
		return []layout.KeyHint{
			{Key: "n", Description: "New scan"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next step"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ScanScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter":
		if s.finished() {
			return s, nil
		}
		res, err := s.engine.ApplyScan(context.Background(), s.steps[s.next])
		if err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		s.errMsg = ""
		if res.TotalScans > 0 {
			s.total = res.TotalScans
		}
		s.next++
	case "n":
		if s.finished() {
			s.next = 0
		}
	}
	return s, nil
}

func (s *ScanScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	for i, step := range s.steps {
		var line string
		switch {
		case i < s.next:
			line = theme.Correct.Render("✓ " + stepLabels[step])
		case i == s.next:
			line = theme.Selected.Render("▸ " + stepLabels[step])
		default:
			line = theme.Disabled.Render("  " + stepLabels[step])
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if s.finished() {
		b.WriteString(theme.Points.Render("🎯 Scan submitted. Results will appear in your reports."))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Scans submitted: %d", s.total)))
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	return components.Center(components.Card(b.String(), cw, theme.Border), width, height)
}

// Package missions lets the learner claim daily missions.
package missions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/academy"
	mission "github.com/agrovision/academy/internal/missions"
	"github.com/agrovision/academy/internal/screen"
	"github.com/agrovision/academy/internal/ui/layout"
	"github.com/agrovision/academy/internal/ui/theme"
)

// MissionsScreen lists the daily missions.
type MissionsScreen struct {
	engine   *academy.Engine
	missions []mission.Mission
	selected int
	notice   string
}

var _ screen.Screen = (*MissionsScreen)(nil)
var _ screen.KeyHintProvider = (*MissionsScreen)(nil)

// New creates a new MissionsScreen.
func New(engine *academy.Engine) *MissionsScreen {
	return &MissionsScreen{engine: engine, missions: engine.Missions()}
}

func (s *MissionsScreen) Init() tea.Cmd {
	return nil
}

func (s *MissionsScreen) Title() string {
	return "Daily Missions"
}

func (s *MissionsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Claim"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MissionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.missions)-1 {
			s.selected++
		}
	case "enter":
		s.claim()
	}
	return s, nil
}

func (s *MissionsScreen) claim() {
	if s.selected >= len(s.missions) {
		return
	}
	m, err := s.engine.ClaimMission(context.Background(), s.missions[s.selected].ID)
	switch {
	case errors.Is(err, mission.ErrAlreadyClaimed):
		s.notice = "Already claimed today."
	case err != nil:
		s.notice = "Could not claim: " + err.Error()
	default:
		s.notice = fmt.Sprintf("+%d XP earned!", m.XP)
	}
	s.missions = s.engine.Missions()
}

func (s *MissionsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	for i, m := range s.missions {
		check := "[ ]"
		style := theme.Unselected
		if m.Completed {
			check = "[✓]"
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s %s  %s", prefix, check, m.Title,
			theme.Points.Render(fmt.Sprintf("+%d XP", m.XP)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n\n")
	}

	if s.notice != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(s.notice))
	}
	return b.String()
}

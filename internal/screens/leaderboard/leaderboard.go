// Package leaderboard shows the village ranking.
package leaderboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/academy"
	lb "github.com/agrovision/academy/internal/leaderboard"
	"github.com/agrovision/academy/internal/screen"
	"github.com/agrovision/academy/internal/ui/theme"
)

// LeaderboardScreen ranks the learner against the other farmers.
type LeaderboardScreen struct {
	rows []lb.Entry
}

var _ screen.Screen = (*LeaderboardScreen)(nil)

// New creates a new LeaderboardScreen from the current points.
func New(engine *academy.Engine) *LeaderboardScreen {
	return &LeaderboardScreen{rows: engine.Leaderboard()}
}

func (s *LeaderboardScreen) Init() tea.Cmd {
	return nil
}

func (s *LeaderboardScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *LeaderboardScreen) Title() string {
	return "Leaderboard"
}

func (s *LeaderboardScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	header := fmt.Sprintf("%-4s %-3s %-18s %-10s %8s", "#", "", "FARMER", "VILLAGE", "XP")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(header)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", lipgloss.Width(header)))))
	b.WriteString("\n")

	for _, r := range s.rows {
		badge := r.Badge
		if badge == "" {
			badge = "  "
		}
		line := fmt.Sprintf("%-4d %s  %-18s %-10s %8d", r.Rank, badge, r.Name, r.Village, r.XP)
		style := theme.Unselected
		if r.You {
			style = theme.Selected
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if pos := lb.Position(s.rows); pos > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(fmt.Sprintf("You are #%d in your village.", pos)))
	}
	return b.String()
}

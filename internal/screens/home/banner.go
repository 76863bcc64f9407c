package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/progress"
	"github.com/agrovision/academy/internal/rewards"
	"github.com/agrovision/academy/internal/ui/components"
	"github.com/agrovision/academy/internal/ui/theme"
)

const titleFull = `╔═╗╔═╗╦═╗╔═╗╦  ╦╦╔═╗╦╔═╗╔╗╔
╠═╣║ ╦╠╦╝║ ║╚╗╔╝║╚═╗║║ ║║║║
╩ ╩╚═╝╩╚═╚═╝ ╚╝ ╩╚═╝╩╚═╝╝╚╝`

const titleCompact = "A G R O V I S I O N   A C A D E M Y"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders points, badges and course progress in a box
// matching the content width.
func renderStatsBar(st progress.State, total, cw int) string {
	pointStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	badgeStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	pathStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	stats := fmt.Sprintf("%s  %s  %s",
		pointStyle.Render(fmt.Sprintf("★ %d POINTS", st.Points)),
		badgeStyle.Render(fmt.Sprintf("🏅 %d BADGES", len(st.Badges))),
		pathStyle.Render(fmt.Sprintf("🌾 %d/%d LESSONS", len(st.CompletedNodes), total)),
	)

	into := st.Points % rewards.PointsPerLevel
	bar := components.NewProgressBar(
		fmt.Sprintf("Lv %d", st.Level),
		float64(into)/float64(rewards.PointsPerLevel),
		cw-6,
	).WithDetail(fmt.Sprintf("%d/%d XP", into, rewards.PointsPerLevel))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats + "\n" + bar.View())
}

// renderFrame wraps content in a double-border frame, centering it
// within the given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

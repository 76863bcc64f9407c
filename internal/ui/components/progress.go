package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/ui/theme"
)

const (
	cellGrown = "▰"
	cellEmpty = "▱"
	cellRipe  = "🌾"
)

// ProgressBar draws a row of crop cells. A full row ends in a harvest
// glyph. Detail replaces the percentage when set.
type ProgressBar struct {
	Label   string
	Percent float64
	Detail  string
	Width   int
}

// NewProgressBar clamps percent to [0, 1].
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: min(max(percent, 0), 1),
		Width:   width,
	}
}

// WithDetail sets the trailing caption, for example "40/100 XP".
func (p ProgressBar) WithDetail(detail string) ProgressBar {
	p.Detail = detail
	return p
}

func (p ProgressBar) caption() string {
	if p.Detail != "" {
		return p.Detail
	}
	return fmt.Sprintf("%d%%", int(p.Percent*100))
}

func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Label) + "  "
	}
	caption := "  " + p.caption()

	cells := p.Width - lipgloss.Width(result) - lipgloss.Width(caption)
	if cells < 4 {
		cells = 4
	}

	filled := int(float64(cells) * p.Percent)
	row := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat(cellGrown, filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat(cellEmpty, cells-filled))
	if filled == cells {
		caption = " " + cellRipe + caption
	}

	return result + row + lipgloss.NewStyle().Foreground(theme.TextDim).Render(caption)
}

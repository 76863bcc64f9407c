package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/ui/theme"
)

// ItemMark is the status glyph shown before a menu label.
type ItemMark int

const (
	MarkNone ItemMark = iota
	MarkDone
	MarkLocked
	MarkNew
)

func (m ItemMark) glyph() string {
	switch m {
	case MarkDone:
		return "✓"
	case MarkLocked:
		return "🔒"
	case MarkNew:
		return "🌱"
	default:
		return ""
	}
}

// MenuItem is one entry of a Menu. Detail is rendered dimmed after the
// label, for example the next lesson's title.
type MenuItem struct {
	Label    string
	Detail   string
	Mark     ItemMark
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical menu that skips disabled items while navigating.
type Menu struct {
	Items    []MenuItem
	Selected int
	Width    int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

// Select moves the cursor to i when it names an enabled item.
func (m *Menu) Select(i int) {
	if i >= 0 && i < len(m.Items) && !m.Items[i].Disabled {
		m.Selected = i
	}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

func (m Menu) View() string {
	selectedStyle := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(theme.Text)
	detailStyle := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)

	lines := make([]string, len(m.Items))
	for i, item := range m.Items {
		mark := item.Mark
		if item.Disabled && mark == MarkNone {
			mark = MarkLocked
		}
		text := item.Label
		if g := mark.glyph(); g != "" {
			text = g + " " + text
		}

		var line string
		switch {
		case item.Disabled:
			line = theme.Disabled.Render("   " + text)
		case i == m.Selected:
			line = selectedStyle.Render(" ▸ " + text + " ")
		default:
			line = labelStyle.Render("   " + text)
		}
		if item.Detail != "" {
			line += "  " + detailStyle.Render(item.Detail)
		}
		lines[i] = line
	}

	out := strings.Join(lines, "\n")
	if m.Width > 0 {
		out = lipgloss.NewStyle().Width(m.Width).Align(lipgloss.Center).Render(out)
	}
	return out
}

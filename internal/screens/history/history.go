package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/progress"
	"github.com/agrovision/academy/internal/rewards"
	"github.com/agrovision/academy/internal/router"
	"github.com/agrovision/academy/internal/screen"
	"github.com/agrovision/academy/internal/store"
	"github.com/agrovision/academy/internal/ui/layout"
	"github.com/agrovision/academy/internal/ui/theme"
)

// historyLimit caps how many reward events are loaded.
const historyLimit = 50

type historyLoadedMsg struct {
	Events []store.RewardEventRecord
	Counts map[string]int
	Err    error
}

// HistoryScreen shows earned badges and the reward log.
type HistoryScreen struct {
	engine   *academy.Engine
	state    progress.State
	events   []store.RewardEventRecord
	counts   map[string]int
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(engine *academy.Engine) *HistoryScreen {
	return &HistoryScreen{
		engine:   engine,
		state:    engine.State(),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		events, err := s.engine.History(ctx, store.QueryOpts{Limit: historyLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		counts, err := s.engine.EventCounts(ctx)
		if err != nil {
			return historyLoadedMsg{Events: events, Counts: map[string]int{}}
		}

		return historyLoadedMsg{Events: events, Counts: counts}
	}
}

func (s *HistoryScreen) Title() string {
	return "Badges & History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
			s.counts = msg.Counts
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderBadges(width))
	b.WriteString("\n\n")

	if s.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("Error: %s", s.errMsg)))
		return b.String()
	}
	if !s.loaded {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("  Loading history..."))
		return b.String()
	}
	if len(s.events) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("  No rewards yet. Start a lesson!"))
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d point awards  %d level-ups  %d badges  %d rewards",
			s.counts[string(rewards.KindPoints)],
			s.counts[string(rewards.KindLevelUp)],
			s.counts[string(rewards.KindBadge)],
			s.counts[string(rewards.KindReward)],
		)))
	b.WriteString("\n\n")

	for i, ev := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s", prefix, ev.Timestamp.Local().Format("Jan 02 15:04"), ev.Message)
		if ev.Delta != 0 {
			line += fmt.Sprintf("  %+d", ev.Delta)
		}

		style := lipgloss.NewStyle().Foreground(kindColor(rewards.EventKind(ev.Kind)))
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    #%d  %d points  level %d", ev.Sequence, ev.Points, ev.Level)
			if ev.BadgeID != "" {
				detail += "  badge " + rewards.BadgeName(ev.BadgeID)
			}
			if ev.TierID != "" {
				detail += fmt.Sprintf("  %s %d%% off", ev.TierID, ev.Discount)
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderBadges shows every known badge, dimmed until earned.
func (s *HistoryScreen) renderBadges(width int) string {
	parts := make([]string, len(rewards.Badges))
	for i, badge := range rewards.Badges {
		if s.state.HasBadge(badge.ID) {
			parts[i] = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("🏅 " + badge.Name)
		} else {
			parts[i] = theme.Disabled.Render("○ " + badge.Name)
		}
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(parts, "   "))
}

func kindColor(k rewards.EventKind) color.Color {
	switch k {
	case rewards.KindLevelUp:
		return theme.Secondary
	case rewards.KindBadge:
		return theme.Accent
	case rewards.KindReward:
		return theme.Success
	default:
		return theme.Text
	}
}

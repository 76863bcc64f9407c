// Package coursemap shows the learning path grouped by unit.
package coursemap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/catalog"
	"github.com/agrovision/academy/internal/router"
	"github.com/agrovision/academy/internal/screen"
	"github.com/agrovision/academy/internal/screens/lesson"
	"github.com/agrovision/academy/internal/ui/layout"
	"github.com/agrovision/academy/internal/ui/theme"
	"github.com/agrovision/academy/internal/unlock"
)

type rowKind int

const (
	rowUnitHeader rowKind = iota
	rowNode
)

type row struct {
	kind   rowKind
	unitID string
	title  string
	node   unlock.NodeStatus
}

// CourseMapScreen lists every unit and node with its lock state.
type CourseMapScreen struct {
	engine       *academy.Engine
	rows         []row
	cursor       int
	scrollOffset int
	notice       string
}

var _ screen.Screen = (*CourseMapScreen)(nil)
var _ screen.Refresher = (*CourseMapScreen)(nil)

// New creates a new CourseMapScreen with the cursor on the next open node.
func New(engine *academy.Engine) *CourseMapScreen {
	s := &CourseMapScreen{engine: engine}
	s.build()

	next, ok := engine.Next()
	for i, r := range s.rows {
		if r.kind != rowNode {
			continue
		}
		if !ok || r.node.Node.ID == next.ID {
			s.cursor = i
			break
		}
	}
	return s
}

// build lays out unit headers followed by their nodes.
func (s *CourseMapScreen) build() {
	units := s.engine.Catalog().Units()
	byUnit := make(map[string][]unlock.NodeStatus, len(units))
	for _, ns := range s.engine.Path() {
		byUnit[ns.UnitID] = append(byUnit[ns.UnitID], ns)
	}

	s.rows = s.rows[:0]
	for _, u := range units {
		s.rows = append(s.rows, row{kind: rowUnitHeader, unitID: u.ID, title: u.Title})
		for _, ns := range byUnit[u.ID] {
			s.rows = append(s.rows, row{kind: rowNode, unitID: u.ID, node: ns})
		}
	}
}

func (s *CourseMapScreen) Init() tea.Cmd {
	return nil
}

// Refresh re-reads lock state after a lesson screen is popped.
func (s *CourseMapScreen) Refresh() tea.Cmd {
	s.build()
	if s.cursor >= len(s.rows) {
		s.cursor = len(s.rows) - 1
	}
	s.notice = ""
	return nil
}

func (s *CourseMapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		s.notice = ""
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.jumpUnit(1)
		case "shift+tab":
			s.jumpUnit(-1)
		case "enter":
			return s, s.selectNode()
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *CourseMapScreen) View(width, height int) string {
	if len(s.rows) == 0 {
		return ""
	}

	listHeight := height
	if s.notice != "" {
		listHeight -= 2
	}
	s.adjustScroll(listHeight)

	var lines []string
	visible := 0
	for i, r := range s.rows {
		if i < s.scrollOffset {
			continue
		}
		if visible >= listHeight {
			break
		}

		switch r.kind {
		case rowUnitHeader:
			lines = append(lines, s.renderUnitHeader(r, width))
		case rowNode:
			lines = append(lines, s.renderNodeRow(r, i == s.cursor, width))
		}
		visible++
	}

	if s.notice != "" {
		lines = append(lines, "", lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(s.notice))
	}

	return strings.Join(lines, "\n")
}

func (s *CourseMapScreen) Title() string {
	return "Learning Path"
}

// KeyHints returns the key binding hints for the footer.
func (s *CourseMapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Unit"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// moveCursor moves the cursor by delta, skipping unit headers.
func (s *CourseMapScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowNode {
			s.cursor = next
			return
		}
		next += delta
	}
}

// jumpUnit moves the cursor to the first node of the next or previous unit.
func (s *CourseMapScreen) jumpUnit(dir int) {
	current := s.rows[s.cursor].unitID
	units := s.engine.Catalog().Units()
	idx := -1
	for i, u := range units {
		if u.ID == current {
			idx = i
			break
		}
	}
	target := idx + dir
	if idx < 0 || target < 0 || target >= len(units) {
		return
	}
	for i, r := range s.rows {
		if r.kind == rowNode && r.unitID == units[target].ID {
			s.cursor = i
			return
		}
	}
}

// adjustScroll keeps the cursor and its unit header inside the viewport.
func (s *CourseMapScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowUnitHeader {
		headerRow--
	}

	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

// selectNode opens the lesson under the cursor, if it is unlocked.
func (s *CourseMapScreen) selectNode() tea.Cmd {
	r := s.rows[s.cursor]
	if r.kind != rowNode {
		return nil
	}
	if r.node.Locked {
		s.notice = "🔒 Complete the previous lesson to unlock this one."
		return nil
	}

	next := lesson.New(s.engine, r.node.Node.ID)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (s *CourseMapScreen) renderUnitHeader(r row, width int) string {
	done, total := 0, 0
	for _, other := range s.rows {
		if other.kind == rowNode && other.unitID == r.unitID {
			total++
			if other.node.Completed {
				done++
			}
		}
	}
	name := fmt.Sprintf("%s  %d/%d", strings.ToUpper(r.title), done, total)
	return lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Width(width).
		Padding(1, 0, 0, 2).
		Render(name)
}

func nodeIcon(ns unlock.NodeStatus) (string, string) {
	switch {
	case ns.Completed:
		return "✓", "Completed"
	case ns.Locked:
		return "🔒", "Locked"
	default:
		return "▶", "Open"
	}
}

func (s *CourseMapScreen) renderNodeRow(r row, selected bool, width int) string {
	icon, label := nodeIcon(r.node)
	kind := "Lesson"
	if r.node.Node.Kind == catalog.KindQuizReview {
		kind = "Review"
	}

	nameWidth := width - 4 - 3 - 8 - 10 - 4
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := r.node.Node.Title
	if lipgloss.Width(name) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}

	var nameStyle, labelStyle lipgloss.Style
	switch {
	case selected:
		nameStyle = theme.Selected
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	case r.node.Completed:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Success)
		labelStyle = nameStyle
	case r.node.Locked:
		nameStyle = theme.Disabled
		labelStyle = theme.Disabled
	default:
		nameStyle = theme.Unselected
		labelStyle = lipgloss.NewStyle().Foreground(theme.Secondary)
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	return fmt.Sprintf("  %s%s %s  %s  %s",
		cursor,
		icon,
		nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%-6s", kind)),
		labelStyle.Render(fmt.Sprintf("%9s", label)),
	)
}

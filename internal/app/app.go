package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/rewards"
	"github.com/agrovision/academy/internal/router"
	"github.com/agrovision/academy/internal/screen"
	"github.com/agrovision/academy/internal/screens/home"
	"github.com/agrovision/academy/internal/screens/welcome"
	"github.com/agrovision/academy/internal/ui/layout"
	"github.com/agrovision/academy/internal/ui/theme"
)

// toastTTL is how long a reward notification stays on screen.
const toastTTL = 3 * time.Second

// maxToasts caps the notification strip.
const maxToasts = 3

type toast struct {
	id    int
	text  string
	kind  rewards.EventKind
	delta int
}

type toastExpiredMsg struct {
	id int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	engine *academy.Engine
	router *router.Router
	toasts []toast
	nextID int
	width  int
	height int
}

// newAppModel creates a new AppModel that opens on the welcome screen.
func newAppModel(engine *academy.Engine) AppModel {
	splash := welcome.New(func() screen.Screen { return home.New(engine) })
	return AppModel{
		engine: engine,
		router: router.New(splash),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	m, toastCmd := m.collectToasts()
	return m, tea.Batch(cmd, toastCmd)
}

// collectToasts turns reward events raised by the last update into
// notifications, each expiring on its own timer.
func (m AppModel) collectToasts() (AppModel, tea.Cmd) {
	events := m.engine.Drain()
	if len(events) == 0 {
		return m, nil
	}
	cmds := make([]tea.Cmd, 0, len(events))
	for _, ev := range events {
		m.nextID++
		id := m.nextID
		m.toasts = append(m.toasts, toast{id: id, text: toastText(ev), kind: ev.Kind, delta: ev.Delta})
		cmds = append(cmds, tea.Tick(toastTTL, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return m, tea.Batch(cmds...)
}

func toastText(ev rewards.Event) string {
	if ev.Kind == rewards.KindPoints {
		return fmt.Sprintf("%s %+d", ev.Message, ev.Delta)
	}
	return ev.Message
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	st := m.engine.State()
	header := layout.RenderHeader(title, st.Points, st.Level, st.Streak, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	strip := m.renderToasts()

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if strip != "" {
		contentHeight -= lipgloss.Height(strip)
	}
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	if strip != "" {
		content = strip + "\n" + content
	}
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		fg := theme.Accent
		switch t.kind {
		case rewards.KindBadge, rewards.KindReward:
			fg = theme.Secondary
		case rewards.KindPoints:
			if t.delta < 0 {
				fg = theme.Error
			}
		}
		lines[i] = lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Foreground(fg).
			Bold(true).
			Render(t.text)
	}
	return strings.Join(lines, "\n")
}

// Run starts the Bubble Tea program.
func Run(engine *academy.Engine) error {
	p := tea.NewProgram(newAppModel(engine))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

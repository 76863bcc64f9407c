package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/calibration"
	"github.com/agrovision/academy/internal/progress"
	"github.com/agrovision/academy/internal/router"
	"github.com/agrovision/academy/internal/screen"
	"github.com/agrovision/academy/internal/screens/calibrate"
	"github.com/agrovision/academy/internal/screens/history"
	boardscreen "github.com/agrovision/academy/internal/screens/leaderboard"
	"github.com/agrovision/academy/internal/screens/lesson"
	missionscreen "github.com/agrovision/academy/internal/screens/missions"
	"github.com/agrovision/academy/internal/screens/coursemap"
	"github.com/agrovision/academy/internal/screens/reset"
	"github.com/agrovision/academy/internal/screens/scan"
	"github.com/agrovision/academy/internal/ui/components"
	"github.com/agrovision/academy/internal/ui/layout"
)

const (
	itemContinue = iota
	itemPath
	itemCalibrate
	itemScan
	itemMissions
	itemLeaderboard
	itemHistory
	itemReset
	itemExit
)

var menuLabels = []string{
	itemContinue:    "CONTINUE LEARNING",
	itemPath:        "LEARNING PATH",
	itemCalibrate:   "PERSONALIZE PATH",
	itemScan:        "NEW CROP SCAN",
	itemMissions:    "DAILY MISSIONS",
	itemLeaderboard: "LEADERBOARD",
	itemHistory:     "BADGES & HISTORY",
	itemReset:       "RESET PROGRESS",
	itemExit:        "EXIT",
}

// HomeScreen is the main menu of the academy.
type HomeScreen struct {
	engine *academy.Engine
	menu   components.Menu
	state  progress.State
	nextID string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(engine *academy.Engine) *HomeScreen {
	h := &HomeScreen{engine: engine}
	h.reload()
	return h
}

// reload re-reads progress and rebuilds the menu, keeping the selection.
func (h *HomeScreen) reload() {
	h.state = h.engine.State()
	h.nextID = ""
	nextTitle := ""
	if next, ok := h.engine.Next(); ok {
		h.nextID = next.ID
		nextTitle = next.Title
	}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: build()}
			}
		}
	}

	actions := []func() tea.Cmd{
		itemContinue: push(func() screen.Screen { return lesson.New(h.engine, h.nextID) }),
		itemPath:     push(func() screen.Screen { return coursemap.New(h.engine) }),
		itemCalibrate: push(func() screen.Screen {
			return calibrate.New(h.engine)
		}),
		itemScan:     push(func() screen.Screen { return scan.New(h.engine) }),
		itemMissions: push(func() screen.Screen { return missionscreen.New(h.engine) }),
		itemLeaderboard: push(func() screen.Screen {
			return boardscreen.New(h.engine)
		}),
		itemHistory: push(func() screen.Screen { return history.New(h.engine) }),
		itemReset:   push(func() screen.Screen { return reset.New(h.engine) }),
		itemExit:    func() tea.Cmd { return tea.Quit },
	}

	items := make([]components.MenuItem, len(menuLabels))
	for i, label := range menuLabels {
		items[i] = components.MenuItem{Label: label, Action: actions[i]}
	}

	total := h.engine.Catalog().Len()
	done := len(h.state.CompletedNodes)
	if h.nextID == "" {
		items[itemContinue].Disabled = true
		items[itemContinue].Mark = components.MarkDone
		items[itemContinue].Detail = "course complete"
	} else {
		items[itemContinue].Detail = nextTitle
		if done == 0 {
			items[itemContinue].Mark = components.MarkNew
		}
	}
	items[itemPath].Detail = fmt.Sprintf("%d/%d", done, total)

	if p, ok := h.engine.Calibration(); ok {
		items[itemCalibrate].Mark = components.MarkDone
		items[itemCalibrate].Detail = fmt.Sprintf("%d focus units", len(p.FocusUnits))
	} else {
		items[itemCalibrate].Detail = fmt.Sprintf("+%d pts", calibration.Bonus)
	}

	ms := h.engine.Missions()
	claimed := 0
	for _, m := range ms {
		if m.Completed {
			claimed++
		}
	}
	items[itemMissions].Detail = fmt.Sprintf("%d/%d claimed", claimed, len(ms))
	if claimed == len(ms) {
		items[itemMissions].Mark = components.MarkDone
	}

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected > 0 {
		h.menu.Select(selected)
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Refresh picks up progress made on screens pushed above home.
func (h *HomeScreen) Refresh() tea.Cmd {
	h.reload()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) ||
		layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)
	total := h.engine.Catalog().Len()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, RenderMascot(variantFor(len(h.state.CompletedNodes), total)))
	}
	sections = append(sections, renderStatsBar(h.state, total, cw))
	h.menu.Width = cw
	sections = append(sections, h.menu.View())

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

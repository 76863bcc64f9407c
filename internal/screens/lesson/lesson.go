// Package lesson runs one learning session on a course node.
package lesson

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/router"
	"github.com/agrovision/academy/internal/screen"
	sess "github.com/agrovision/academy/internal/session"
	"github.com/agrovision/academy/internal/ui/components"
	"github.com/agrovision/academy/internal/ui/layout"
)

// pollInterval is the retry delay when the advance has not landed yet.
const pollInterval = 100 * time.Millisecond

// LessonScreen presents a node's text and questions and shows the result.
type LessonScreen struct {
	engine  *academy.Engine
	nodeID  string
	snap    sess.Snapshot
	choice  components.MultiChoice
	started bool
	errMsg  string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.Closer = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a LessonScreen for nodeID. The session starts on Init.
func New(engine *academy.Engine, nodeID string) *LessonScreen {
	return &LessonScreen{engine: engine, nodeID: nodeID}
}

// Init opens the session before the screen handles any key, so a Close
// always sees the session it owns.
func (s *LessonScreen) Init() tea.Cmd {
	snap, err := s.engine.Start(s.nodeID)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.started = true
	s.show(snap)
	return nil
}

// Close abandons the session when the screen leaves the stack. A session
// opened by another screen is left alone.
func (s *LessonScreen) Close() {
	if !s.started {
		return
	}
	if cur, ok := s.engine.Session(); ok && cur.ID == s.snap.ID {
		s.engine.ExitSession()
	}
}

func (s *LessonScreen) Title() string {
	if s.snap.NodeTitle != "" {
		return s.snap.NodeTitle
	}
	return "Lesson"
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch {
	case !s.started:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.snap.Phase == sess.PhasePresenting:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "a/b/c", Description: "Answer"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	case s.snap.Phase == sess.PhaseShowingText:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done reading"},
			{Key: "Esc", Description: "Leave"},
		}
	case s.snap.Phase == sess.PhaseCompleted:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{{Key: "Esc", Description: "Leave"}}
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceCheckMsg:
		return s, s.checkAdvance(msg)

	case tea.KeyMsg:
		if !s.started {
			return s, nil
		}
		switch s.snap.Phase {
		case sess.PhasePresenting:
			return s, s.handleChoice(msg)
		case sess.PhaseShowingText:
			if msg.String() == "enter" {
				snap, err := s.engine.AcknowledgeLesson(context.Background())
				if err != nil {
					s.errMsg = err.Error()
					return s, nil
				}
				s.show(snap)
			}
		case sess.PhaseCompleted:
			if msg.String() == "enter" {
				return s, s.continueCmd()
			}
		}
	}
	return s, nil
}

// show adopts a new snapshot, resetting the chooser when a fresh question
// is up.
func (s *LessonScreen) show(snap sess.Snapshot) {
	fresh := snap.Phase == sess.PhasePresenting &&
		(s.snap.Phase != sess.PhasePresenting || s.snap.Index != snap.Index || s.snap.ID != snap.ID)
	s.snap = snap
	if fresh && snap.Question != nil {
		s.choice = components.NewMultiChoice(*snap.Question)
	}
}

func (s *LessonScreen) handleChoice(msg tea.KeyMsg) tea.Cmd {
	s.choice, _ = s.choice.Update(msg)
	opt, ok := s.choice.ChosenOption()
	if !ok {
		return nil
	}

	snap, err := s.engine.AnswerOption(context.Background(), opt.ID)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.snap = snap
	s.choice.Reveal()

	check := advanceCheckMsg{SessionID: snap.ID, Index: snap.Index}
	return tea.Tick(s.engine.AdvanceDelay(), func(time.Time) tea.Msg { return check })
}

// checkAdvance reads the session after the feedback delay. The engine
// advances on its own timer, so a check that lands first polls again.
func (s *LessonScreen) checkAdvance(msg advanceCheckMsg) tea.Cmd {
	if msg.SessionID != s.snap.ID {
		return nil
	}
	snap, ok := s.engine.Session()
	if !ok || snap.ID != msg.SessionID {
		return nil
	}
	if snap.Phase == sess.PhaseAnswered && snap.Index == msg.Index {
		return tea.Tick(pollInterval, func(time.Time) tea.Msg { return msg })
	}
	s.show(snap)
	return nil
}

// continueCmd moves on to the next open node, or back when the course is
// done or the next node is this one.
func (s *LessonScreen) continueCmd() tea.Cmd {
	next, ok := s.engine.Next()
	if !ok || next.ID == s.nodeID {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	following := New(s.engine, next.ID)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: following} }
}

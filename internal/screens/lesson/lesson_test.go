package lesson

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/router"
	sess "github.com/agrovision/academy/internal/session"
	"github.com/agrovision/academy/internal/store"
)

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

// heldScheduler keeps advances until fire is called.
type heldScheduler struct {
	mu sync.Mutex
	fs []func()
}

func (h *heldScheduler) AfterFunc(_ time.Duration, f func()) sess.Timer {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fs = append(h.fs, f)
	return heldTimer{}
}

func (h *heldScheduler) fire() {
	h.mu.Lock()
	fs := h.fs
	h.fs = nil
	h.mu.Unlock()
	for _, f := range fs {
		f()
	}
}

func keyMsg(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testEngine(t *testing.T) (*academy.Engine, *heldScheduler) {
	t.Helper()
	sched := &heldScheduler{}
	e, err := academy.New(context.Background(), academy.Options{KV: store.NewMemoryKV(), Scheduler: sched})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, sched
}

func started(t *testing.T, e *academy.Engine, nodeID string) *LessonScreen {
	t.Helper()
	s := New(e, nodeID)
	if cmd := s.Init(); cmd != nil {
		t.Fatal("expected Init to start the session without a command")
	}
	return s
}

// completeNode plays nodeID through the engine directly.
func completeNode(t *testing.T, e *academy.Engine, sched *heldScheduler, nodeID string) {
	t.Helper()
	ctx := context.Background()
	snap, err := e.Start(nodeID)
	if err != nil {
		t.Fatalf("start %s: %v", nodeID, err)
	}
	for !snap.Finished() {
		if snap.Phase == sess.PhaseShowingText {
			snap, _ = e.AcknowledgeLesson(ctx)
			continue
		}
		right, _ := snap.Question.CorrectOption()
		if _, err := e.AnswerOption(ctx, right.ID); err != nil {
			t.Fatalf("answer: %v", err)
		}
		sched.fire()
		snap, _ = e.Session()
	}
}

func TestAnswerRevealsAndAdvances(t *testing.T) {
	e, sched := testEngine(t)
	s := started(t, e, "u1_n1")

	if s.snap.Phase != sess.PhasePresenting {
		t.Fatalf("expected presenting, got %v", s.snap.Phase)
	}

	_, cmd := s.Update(keyMsg('b'))
	if cmd == nil {
		t.Fatal("expected an advance check to be scheduled")
	}
	if s.snap.Status != sess.StatusCorrect {
		t.Errorf("expected correct status, got %v", s.snap.Status)
	}
	if !s.choice.Revealed {
		t.Error("expected the answer to be revealed")
	}

	check := advanceCheckMsg{SessionID: s.snap.ID, Index: 0}

	// The engine has not advanced yet, so the screen polls again.
	_, cmd = s.Update(check)
	if cmd == nil {
		t.Error("expected a poll while the advance is pending")
	}

	sched.fire()
	s.Update(check)
	if s.snap.Phase != sess.PhaseCompleted {
		t.Errorf("expected completed, got %v", s.snap.Phase)
	}
	if s.snap.Score != 1 {
		t.Errorf("expected score 1, got %d", s.snap.Score)
	}
}

func TestKeysIgnoredWhileAnswered(t *testing.T) {
	e, _ := testEngine(t)
	s := started(t, e, "u1_n1")

	s.Update(keyMsg('a'))
	if s.snap.Status != sess.StatusIncorrect {
		t.Fatalf("expected incorrect, got %v", s.snap.Status)
	}
	_, cmd := s.Update(keyMsg('b'))
	if cmd != nil {
		t.Error("keys during feedback should do nothing")
	}
	if s.snap.Status != sess.StatusIncorrect {
		t.Error("answer must not change during feedback")
	}
}

func TestLockedNodeShowsError(t *testing.T) {
	e, _ := testEngine(t)
	s := started(t, e, "u2_n1")

	if s.errMsg == "" {
		t.Fatal("expected an error for a locked node")
	}
	if s.started {
		t.Error("locked node must not start")
	}
	s.Close()
}

func TestTextLessonAcknowledge(t *testing.T) {
	e, sched := testEngine(t)
	for _, id := range []string{"u1_n1", "u1_n2", "u1_n3"} {
		completeNode(t, e, sched, id)
	}

	s := started(t, e, "u2_n1")
	if s.snap.Phase != sess.PhaseShowingText {
		t.Fatalf("expected showing text, got %v", s.snap.Phase)
	}

	s.Update(specialKey(tea.KeyEnter))
	if s.snap.Phase != sess.PhaseCompleted {
		t.Errorf("expected completed after reading, got %v", s.snap.Phase)
	}
	if !e.State().HasBadge("scholar") {
		t.Error("expected the scholar badge after the third lesson")
	}
}

func TestCloseExitsSession(t *testing.T) {
	e, _ := testEngine(t)
	s := started(t, e, "u1_n1")

	s.Close()
	if _, ok := e.Session(); ok {
		t.Error("expected the session to be gone after close")
	}
}

func TestEscRightAfterInitLeavesNoSession(t *testing.T) {
	e, _ := testEngine(t)
	s := New(e, "u1_n1")
	s.Init()
	if _, ok := e.Session(); !ok {
		t.Fatal("expected the session to be open once Init returns")
	}

	// Popping before any key reaches the screen still ends the session.
	s.Close()
	if _, ok := e.Session(); ok {
		t.Error("expected no orphaned session")
	}
}

func TestCloseLeavesNewerSessionAlone(t *testing.T) {
	e, _ := testEngine(t)
	old := started(t, e, "u1_n1")
	newer := started(t, e, "u1_n1")

	old.Close()
	cur, ok := e.Session()
	if !ok || cur.ID != newer.snap.ID {
		t.Error("closing a stale screen must not end the newer session")
	}
}

func TestContinueReplacesWithNextLesson(t *testing.T) {
	e, sched := testEngine(t)
	s := started(t, e, "u1_n1")
	s.Update(keyMsg('b'))
	sched.fire()
	s.Update(advanceCheckMsg{SessionID: s.snap.ID, Index: 0})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	next, ok := msg.Screen.(*LessonScreen)
	if !ok || next.nodeID != "u1_n2" {
		t.Errorf("expected lesson for u1_n2, got %#v", msg.Screen)
	}
}

func TestViewRenders(t *testing.T) {
	e, _ := testEngine(t)
	s := New(e, "u1_n1")
	if s.View(80, 20) == "" {
		t.Error("expected a loading view")
	}
	s.Init()
	if s.View(80, 20) == "" {
		t.Error("expected a question view")
	}
}

package reset

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/router"
	"github.com/agrovision/academy/internal/store"
)

func typeText(s *ResetScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func engineWithProgress(t *testing.T) *academy.Engine {
	t.Helper()
	ctx := context.Background()
	e, err := academy.New(ctx, academy.Options{KV: store.NewMemoryKV()})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := e.Start("u1_n1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.Answer(ctx, true); err != nil {
		t.Fatalf("answer: %v", err)
	}
	e.ExitSession()
	return e
}

func TestWrongWordDoesNotReset(t *testing.T) {
	e := engineWithProgress(t)
	points := e.State().Points

	s := New(e)
	typeText(s, "no")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.done {
		t.Fatal("reset must require the confirm word")
	}
	if s.errMsg == "" {
		t.Error("expected a hint about the confirm word")
	}
	if e.State().Points != points {
		t.Error("points changed without reset")
	}
}

func TestConfirmResets(t *testing.T) {
	ctx := context.Background()
	e, err := academy.New(ctx, academy.Options{KV: store.NewMemoryKV()})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	e.SetStreak(ctx, 2)

	s := New(e)
	typeText(s, "yes")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if !s.done {
		t.Fatal("expected reset to complete")
	}
	if len(e.State().CompletedNodes) != 0 {
		t.Error("expected no completed nodes")
	}
	if e.State().Streak != 2 {
		t.Error("reset must keep the streak")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a pop after reset")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

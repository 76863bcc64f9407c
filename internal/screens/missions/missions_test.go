package missions

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/store"
)

func TestClaimMission(t *testing.T) {
	e, err := academy.New(context.Background(), academy.Options{KV: store.NewMemoryKV()})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	s := New(e)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if !s.missions[1].Completed {
		t.Fatal("expected the second mission to be claimed")
	}
	if e.State().Points != 50 {
		t.Errorf("expected 50 points, got %d", e.State().Points)
	}
	if !strings.Contains(s.notice, "+50") {
		t.Errorf("unexpected notice %q", s.notice)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.notice != "Already claimed today." {
		t.Errorf("expected already-claimed notice, got %q", s.notice)
	}
	if e.State().Points != 50 {
		t.Error("a second claim must not award XP")
	}
}

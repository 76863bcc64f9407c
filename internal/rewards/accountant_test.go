package rewards

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/agrovision/academy/internal/logger"
	"github.com/agrovision/academy/internal/progress"
	"github.com/agrovision/academy/internal/store"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestAccountant(t *testing.T, kv store.KV) (*Accountant, *Recorder) {
	t.Helper()
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	rec := NewRecorder()
	a := New(context.Background(), progress.NewStore(kv, nil), Options{
		Sinks: []Sink{rec},
		Now:   func() time.Time { return fixedNow },
	})
	return a, rec
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 1}, {99, 1}, {100, 2}, {250, 3}, {1000, 11}, {-40, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.points), "points=%d", tt.points)
	}
}

func TestAwardPointsEmitsPointsEvent(t *testing.T) {
	a, rec := newTestAccountant(t, nil)

	got := a.AwardPoints(context.Background(), 5, MsgCorrect)
	assert.Equal(t, 5, got)

	events := rec.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, Event{
		Kind: KindPoints, Message: MsgCorrect, Delta: 5, Points: 5, Level: 1, Time: fixedNow,
	}, events[0])
}

func TestAwardPointsSilentWithoutMessage(t *testing.T) {
	a, rec := newTestAccountant(t, nil)
	a.AwardPoints(context.Background(), 10, "")
	assert.Equal(t, 0, rec.Len())
	assert.Equal(t, 10, a.State().Points)
}

func TestAwardPointsLevelUpReplacesPointsEvent(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	a, rec := newTestAccountant(t, kv)

	a.AwardPoints(ctx, 95, "")
	a.AwardPoints(ctx, 5, MsgCorrect)

	events := rec.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, KindLevelUp, events[0].Kind)
	assert.Equal(t, "🎉 Level 2 Unlocked!", events[0].Message)
	assert.Equal(t, 2, events[0].Level)

	level, _, _ := kv.Get(ctx, progress.KeyLevel)
	assert.Equal(t, "2", level)
	points, _, _ := kv.Get(ctx, progress.KeyPoints)
	assert.Equal(t, "100", points)
}

func TestPointsFloorAtZero(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccountant(t, nil)

	for i := 0; i < 5; i++ {
		a.AwardPoints(ctx, PointsWrong, MsgWrong)
	}
	st := a.State()
	assert.Equal(t, 0, st.Points)
	assert.Equal(t, 1, st.Level)
}

func TestLevelIsNotLoweredByLostPoints(t *testing.T) {
	ctx := context.Background()
	a, rec := newTestAccountant(t, nil)

	a.AwardPoints(ctx, 100, "")
	a.AwardPoints(ctx, PointsWrong, MsgWrong)

	st := a.State()
	assert.Equal(t, 97, st.Points)
	assert.Equal(t, 2, st.Level)
	assert.Equal(t, []EventKind{KindLevelUp, KindPoints}, kinds(rec.Drain()))
}

func TestCompleteNodeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	a, rec := newTestAccountant(t, nil)

	assert.True(t, a.CompleteNode(ctx, "u1_n1"))
	first := a.State()
	rec.Drain()

	assert.False(t, a.CompleteNode(ctx, "u1_n1"))
	second := a.State()

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"u1_n1"}, second.CompletedNodes)
	assert.Equal(t, PointsNodeComplete, second.Points)
	assert.Zero(t, rec.Len())
}

func TestScholarBadgeOnThirdCompletion(t *testing.T) {
	ctx := context.Background()
	a, rec := newTestAccountant(t, nil)

	a.CompleteNode(ctx, "u1_n1")
	a.CompleteNode(ctx, "u1_n2")
	rec.Drain()
	require.False(t, a.State().HasBadge(BadgeScholar.ID))

	a.CompleteNode(ctx, "u1_n3")
	st := a.State()
	assert.Equal(t, []string{"u1_n1", "u1_n2", "u1_n3"}, st.CompletedNodes)
	assert.Equal(t, []string{"scholar"}, st.Badges)
	// 3 completions plus the badge bonus.
	assert.Equal(t, 3*PointsNodeComplete+PointsBadge, st.Points)

	events := rec.Drain()
	assert.Equal(t, []EventKind{KindPoints, KindBadge, KindLevelUp}, kinds(events))
	assert.Equal(t, "🏆 Badge Earned: Scholar!", events[1].Message)
}

func TestBadgeAwardedOnce(t *testing.T) {
	ctx := context.Background()
	a, rec := newTestAccountant(t, nil)

	assert.True(t, a.CheckAndAwardBadge(ctx, "photographer", "Photographer", true))
	assert.False(t, a.CheckAndAwardBadge(ctx, "photographer", "Photographer", true))
	assert.False(t, a.CheckAndAwardBadge(ctx, "expert", "Expert Diagnostician", false))

	st := a.State()
	assert.Equal(t, []string{"photographer"}, st.Badges)
	assert.Equal(t, PointsBadge, st.Points)
	assert.Equal(t, []EventKind{KindBadge}, kinds(rec.Drain()))
}

func completeAll(ctx context.Context, a *Accountant, ids ...string) {
	for _, id := range ids {
		a.CompleteNode(ctx, id)
	}
}

func rewardEvents(events []Event) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind == KindReward {
			out = append(out, ev)
		}
	}
	return out
}

func TestRewardTierFiresOnceOnTransition(t *testing.T) {
	ctx := context.Background()
	a, rec := newTestAccountant(t, nil)

	completeAll(ctx, a, "u4_n1", "u4_n2", "u4_n3")
	assert.Empty(t, rewardEvents(rec.Drain()))

	a.CompleteNode(ctx, "u4_n4")
	rewards := rewardEvents(rec.Drain())
	require.Len(t, rewards, 1)
	assert.Equal(t, "unit_4", rewards[0].TierID)
	assert.Equal(t, 50, rewards[0].Discount)

	a.CompleteNode(ctx, "u4_n4")
	a.CompleteNode(ctx, "u3_n1")
	assert.Empty(t, rewardEvents(rec.Drain()))

	a.CompleteNode(ctx, "u5_n1")
	rewards = rewardEvents(rec.Drain())
	require.Len(t, rewards, 1)
	assert.Equal(t, "unit_5", rewards[0].TierID)
	assert.Equal(t, 100, rewards[0].Discount)
}

func TestRecordScanBadges(t *testing.T) {
	ctx := context.Background()
	a, rec := newTestAccountant(t, nil)

	assert.Equal(t, 1, a.RecordScan(ctx))
	assert.Equal(t, []string{"first_scan"}, a.State().Badges)

	for i := 2; i <= 10; i++ {
		a.RecordScan(ctx)
	}
	st := a.State()
	assert.Equal(t, 10, st.TotalScans)
	assert.Equal(t, []string{"first_scan", "experienced", "expert"}, st.Badges)
	assert.Equal(t, 3*PointsBadge, st.Points)

	var badges []string
	for _, ev := range rec.Drain() {
		if ev.Kind == KindBadge {
			badges = append(badges, ev.BadgeID)
		}
	}
	assert.Equal(t, []string{"first_scan", "experienced", "expert"}, badges)
}

func TestResetCompletedNodesScope(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	a, _ := newTestAccountant(t, kv)

	completeAll(ctx, a, "u1_n1", "u1_n2", "u1_n3")
	a.SetStreak(ctx, 4)
	before := a.State()

	a.ResetCompletedNodes(ctx)
	after := a.State()

	assert.Empty(t, after.CompletedNodes)
	assert.Equal(t, before.Points, after.Points)
	assert.Equal(t, before.Level, after.Level)
	assert.Equal(t, before.Badges, after.Badges)
	assert.Equal(t, 4, after.Streak)

	reloaded := progress.NewStore(kv, nil).Load(ctx)
	assert.Empty(t, reloaded.CompletedNodes)
	assert.Equal(t, before.Points, reloaded.Points)
}

func TestStatePersistsAcrossAccountants(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	a, _ := newTestAccountant(t, kv)
	completeAll(ctx, a, "u1_n1", "u1_n2", "u1_n3")
	a.RecordScan(ctx)

	b, _ := newTestAccountant(t, kv)
	assert.Equal(t, a.State(), b.State())
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (brokenKV) Set(context.Context, string, string) error        { return errors.New("disk full") }
func (brokenKV) Delete(context.Context, string) error             { return nil }

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	a := New(ctx, progress.NewStore(brokenKV{}, nil), Options{Logger: logger.FromZap(zap.New(core))})

	assert.True(t, a.CompleteNode(ctx, "u1_n1"))
	st := a.State()
	assert.Equal(t, []string{"u1_n1"}, st.CompletedNodes)
	assert.Equal(t, PointsNodeComplete, st.Points)
	assert.NotZero(t, logs.FilterMessage("persist progress failed").Len())
}

func TestNegativeStoredPointsAreClamped(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, progress.KeyPoints, "-12"))
	require.NoError(t, kv.Set(ctx, progress.KeyLevel, "0"))

	a, _ := newTestAccountant(t, kv)
	st := a.State()
	assert.Equal(t, 0, st.Points)
	assert.Equal(t, 1, st.Level)
}

func TestLevelReconciledWithStoredPoints(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		level string
	}{
		{"missing level", ""},
		{"corrupt level", "abc"},
		{"stale level", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryKV()
			require.NoError(t, kv.Set(ctx, progress.KeyPoints, "250"))
			if tt.level != "" {
				require.NoError(t, kv.Set(ctx, progress.KeyLevel, tt.level))
			}

			a, rec := newTestAccountant(t, kv)
			assert.Equal(t, 3, a.State().Level)

			a.AwardPoints(ctx, PointsCorrect, MsgCorrect)
			events := rec.Drain()
			require.Len(t, events, 1)
			assert.Equal(t, KindPoints, events[0].Kind)
			assert.Equal(t, MsgCorrect, events[0].Message)
		})
	}
}

func TestStateIsACopy(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccountant(t, nil)
	a.CompleteNode(ctx, "u1_n1")

	st := a.State()
	st.CompletedNodes[0] = "tampered"
	assert.Equal(t, "u1_n1", a.State().CompletedNodes[0])
}

package scans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovision/academy/internal/progress"
	"github.com/agrovision/academy/internal/rewards"
	"github.com/agrovision/academy/internal/store"
)

func newAccountant() (*rewards.Accountant, *rewards.Recorder) {
	rec := rewards.NewRecorder()
	a := rewards.New(context.Background(), progress.NewStore(store.NewMemoryKV(), nil), rewards.Options{
		Sinks: []rewards.Sink{rec},
	})
	return a, rec
}

func TestParseStep(t *testing.T) {
	for _, s := range Steps() {
		got, err := ParseStep(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStep("analyze")
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestFullScanFlow(t *testing.T) {
	ctx := context.Background()
	acct, rec := newAccountant()
	flow := NewFlow(acct)

	var last Result
	for _, s := range Steps() {
		res, err := flow.Apply(ctx, s)
		require.NoError(t, err)
		last = res
	}

	st := acct.State()
	assert.Equal(t, 1, st.TotalScans)
	assert.Equal(t, 1, last.TotalScans)
	assert.Equal(t, []string{"photographer", "first_scan"}, st.Badges)
	// 5+20+10+15+30 for the steps plus two badge bonuses.
	assert.Equal(t, 80+2*rewards.PointsBadge, st.Points)

	var msgs []string
	for _, ev := range rec.Drain() {
		if ev.Kind == rewards.KindPoints {
			msgs = append(msgs, ev.Message)
		}
	}
	assert.Contains(t, msgs, "📸 Photos uploaded!")
	assert.Contains(t, msgs, "🎯 Analysis started!")
}

func TestPhotographerBadgeOnce(t *testing.T) {
	ctx := context.Background()
	acct, _ := newAccountant()
	flow := NewFlow(acct)

	_, err := flow.Apply(ctx, StepPhotos)
	require.NoError(t, err)
	res, err := flow.Apply(ctx, StepPhotos)
	require.NoError(t, err)

	assert.Equal(t, 2*20+rewards.PointsBadge, res.Points)
	assert.Equal(t, []string{"photographer"}, acct.State().Badges)
}

func TestApplyUnknownStep(t *testing.T) {
	acct, _ := newAccountant()
	_, err := NewFlow(acct).Apply(context.Background(), Step("teleport"))
	assert.ErrorIs(t, err, ErrUnknownStep)
	assert.Equal(t, 0, acct.State().Points)
}

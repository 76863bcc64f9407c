package calibration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovision/academy/internal/store"
)

type countingAwarder struct {
	total    int
	messages []string
}

func (a *countingAwarder) AwardPoints(_ context.Context, delta int, message string) int {
	a.total += delta
	a.messages = append(a.messages, message)
	return a.total
}

var full = Answers{SoilFertility: SoilLow, PestAttacks: PestsFrequent, IrrigationCost: IrrigationOkay}

func TestQuestionsCoverEveryField(t *testing.T) {
	qs := Questions(nil)
	require.Len(t, qs, 3)
	for _, q := range qs {
		require.Len(t, q.Choices, 2, q.Field)
		for _, c := range q.Choices {
			var a Answers
			assert.NoError(t, a.Set(q.Field, c.Value))
			assert.Equal(t, c.Value, a.Get(q.Field))
		}
	}
	assert.Equal(t, "How is your soil fertility?", qs[0].Prompt)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, full.Validate())
	assert.ErrorIs(t, Answers{SoilFertility: SoilGood}.Validate(), ErrIncomplete)

	bad := full
	bad.PestAttacks = "sometimes"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAnswer)

	var a Answers
	assert.ErrorIs(t, a.Set("weather", "sunny"), ErrInvalidAnswer)
}

func TestFocusUnits(t *testing.T) {
	assert.Equal(t, []string{"unit_1", "unit_2", "unit_3"}, FocusUnits(full))
	assert.Empty(t, FocusUnits(Answers{SoilFertility: SoilGood, PestAttacks: PestsRare, IrrigationCost: IrrigationOkay}))
	assert.Equal(t, []string{"unit_4"}, FocusUnits(Answers{SoilFertility: SoilGood, PestAttacks: PestsRare, IrrigationCost: IrrigationExpensive}))
}

func TestSubmitAwardsBonusOnce(t *testing.T) {
	ctx := context.Background()
	aw := &countingAwarder{}
	s := Load(ctx, store.NewMemoryKV(), aw, nil)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	_, ok := s.Profile()
	assert.False(t, ok)

	res, err := s.Submit(ctx, full)
	require.NoError(t, err)
	assert.True(t, res.Awarded)
	assert.Equal(t, Bonus, aw.total)
	assert.Equal(t, []string{MsgComplete}, aw.messages)

	again := full
	again.SoilFertility = SoilGood
	res, err = s.Submit(ctx, again)
	require.NoError(t, err)
	assert.False(t, res.Awarded)
	assert.Equal(t, Bonus, aw.total)
	assert.Equal(t, []string{"unit_3"}, res.Profile.FocusUnits)
}

func TestSubmitRejectsIncomplete(t *testing.T) {
	aw := &countingAwarder{}
	s := Load(context.Background(), store.NewMemoryKV(), aw, nil)

	_, err := s.Submit(context.Background(), Answers{PestAttacks: PestsRare})
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Zero(t, aw.total)
	_, ok := s.Profile()
	assert.False(t, ok)
}

func TestProfileSurvivesReload(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	_, err := Load(ctx, kv, &countingAwarder{}, nil).Submit(ctx, full)
	require.NoError(t, err)

	aw := &countingAwarder{}
	s := Load(ctx, kv, aw, nil)
	p, ok := s.Profile()
	require.True(t, ok)
	assert.Equal(t, full, p.Answers)

	res, err := s.Submit(ctx, full)
	require.NoError(t, err)
	assert.False(t, res.Awarded, "a saved profile means the bonus was already paid")
	assert.Zero(t, aw.total)
}

func TestMalformedProfileIgnored(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{oops", `{"soil_fertility":"low"}`} {
		kv := store.NewMemoryKV()
		require.NoError(t, kv.Set(ctx, StorageKey, raw))
		_, ok := Load(ctx, kv, &countingAwarder{}, nil).Profile()
		assert.False(t, ok, "raw=%s", raw)
	}
}

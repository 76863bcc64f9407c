package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(rows []Entry) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestBuildFreshLearner(t *testing.T) {
	rows := Build(Seed(), 0)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Ramesh Kumar", "Suresh Patel", "Anita Devi", "You", "Vikram Singh"}, names(rows))
	assert.Equal(t, "🏆", rows[0].Badge)
	assert.Equal(t, "🥈", rows[1].Badge)
	assert.Equal(t, "🥉", rows[2].Badge)
	assert.Equal(t, "⭐", rows[3].Badge)
	assert.Equal(t, "", rows[4].Badge)
	assert.Equal(t, 4, Position(rows))
}

func TestBuildRanksByXP(t *testing.T) {
	rows := Build(Seed(), 1000)
	assert.Equal(t, []string{"Ramesh Kumar", "You", "Suresh Patel", "Anita Devi", "Vikram Singh"}, names(rows))
	assert.Equal(t, 2, Position(rows))
	assert.Equal(t, "🥈", rows[1].Badge)
	assert.Equal(t, "", rows[3].Badge, "medal follows rank")
	for i, r := range rows {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestBuildTieKeepsSeedOrder(t *testing.T) {
	rows := Build(Seed(), 850)
	assert.Equal(t, []string{"Ramesh Kumar", "Suresh Patel", "Anita Devi", "You", "Vikram Singh"}, names(rows))
}

func TestBuildTopSpot(t *testing.T) {
	rows := Build(Seed(), 5000)
	assert.Equal(t, 1, Position(rows))
	assert.Equal(t, "🏆", rows[0].Badge)
	assert.Equal(t, 5000, rows[0].XP)
}

func TestBuildSmallBoard(t *testing.T) {
	rows := Build([]Entry{{Name: "Asha", Village: "Kheda", XP: 10}}, 20)
	assert.Equal(t, []string{"You", "Asha"}, names(rows))
	assert.Equal(t, "Kheda", rows[0].Village)

	rows = Build(nil, 0)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].You)
}

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--backend", "memory"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestUnitsListsPath(t *testing.T) {
	out, err := run(t, "units")
	require.NoError(t, err)
	assert.Contains(t, out, "u1_n1")
	assert.Contains(t, out, "locked")
	assert.Contains(t, out, "Next:")
}

func TestScanPrintsAwards(t *testing.T) {
	out, err := run(t, "scan", "submit")
	require.NoError(t, err)
	assert.Contains(t, out, "Analysis started! +30")
	assert.Contains(t, out, "First Scan")
}

func TestScanRejectsUnknownStep(t *testing.T) {
	_, err := run(t, "scan", "teleport")
	assert.Error(t, err)
}

func TestMissionClaim(t *testing.T) {
	out, err := run(t, "missions", "claim", "m2")
	require.NoError(t, err)
	assert.Contains(t, out, "Mission Completed! +50")
}

func TestResetNeedsConfirmation(t *testing.T) {
	_, err := run(t, "reset")
	assert.ErrorContains(t, err, "--yes")
}

func TestStatsAndLeaderboard(t *testing.T) {
	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Level:     1")

	out, err = run(t, "leaderboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Ramesh Kumar")
	assert.Contains(t, out, "You")
}

func TestCalibrateAwardsBonus(t *testing.T) {
	out, err := run(t, "calibrate", "--soil", "low", "--pests", "rare", "--irrigation", "expensive")
	require.NoError(t, err)
	assert.Contains(t, out, "Calibration Complete! +50")
	assert.Contains(t, out, "Unit 1: Healthy Soil, Healthy Farm")
	assert.Contains(t, out, "Unit 4: Avoiding Harmful Practices")
}

func TestCalibrateRejectsUnknownValue(t *testing.T) {
	_, err := run(t, "calibrate", "--soil", "sandy", "--pests", "rare", "--irrigation", "okay")
	assert.ErrorContains(t, err, "--soil")
}

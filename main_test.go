package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twinclash/internal/level"
	"twinclash/internal/scoring"
)

func TestSelectLevels(t *testing.T) {
	cat, err := level.Default()
	require.NoError(t, err)

	defer func() { flagWorld = 0 }()

	levels, err := selectLevels(cat, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, levels[0].ID)
	assert.Len(t, levels, len(cat.Levels))

	levels, err = selectLevels(cat, []string{"6"})
	require.NoError(t, err)
	assert.Equal(t, 6, levels[0].ID)

	_, err = selectLevels(cat, []string{"abc"})
	assert.Error(t, err)
	_, err = selectLevels(cat, []string{"9999"})
	assert.Error(t, err)

	flagWorld = 2
	levels, err = selectLevels(cat, nil)
	require.NoError(t, err)
	for _, d := range levels {
		assert.Equal(t, 2, d.World)
	}

	flagWorld = 999
	_, err = selectLevels(cat, nil)
	assert.Error(t, err)
}

func TestPrintLevels(t *testing.T) {
	levels := []level.Descriptor{
		{ID: 1, World: 1, Stage: 1, Pairs: 6, TimeLimitSeconds: 60},
		{ID: 2, World: 1, Stage: 2, Pairs: 8, TimeLimitSeconds: 50, Obstacles: level.Obstacles{Ice: 2, Stone: 1}},
	}
	entries := []scoring.OutcomeEntry{
		{LevelID: 1, Outcome: scoring.Outcome{Result: scoring.ResultWin, Stars: 2, MovesUsed: 8}},
		{LevelID: 1, Outcome: scoring.Outcome{Result: scoring.ResultLoss}},
	}

	var buf bytes.Buffer
	require.NoError(t, printLevels(&buf, levels, entries))
	out := buf.String()

	assert.Contains(t, out, "1-1")
	assert.Contains(t, out, "** (1/2 won)")
	assert.Contains(t, out, "ice:2 stone:1")
}

func TestObstacleSummary(t *testing.T) {
	assert.Equal(t, "-", obstacleSummary(level.Obstacles{}))
	assert.Equal(t, "fire:1 virus:3", obstacleSummary(level.Obstacles{Fire: 1, Virus: 3}))
}

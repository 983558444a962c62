package level

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Len(t, c.Levels, 60)

	first, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, 6, first.Pairs)
	assert.Equal(t, 60, first.TimeLimitSeconds)
	assert.Equal(t, "nature", first.Theme)

	l16, ok := c.Get(16)
	require.True(t, ok)
	assert.Equal(t, 3, l16.Obstacles.Ice)
	assert.Equal(t, "4-1", l16.Name())

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, c.Worlds())
	assert.Len(t, c.World(4), 5)
	assert.Equal(t, 1, c.World(4)[0].Stage)

	l60, ok := c.Get(60)
	require.True(t, ok)
	assert.True(t, l60.ProgressiveVirus)
	assert.True(t, l60.HazardMode)
	assert.Equal(t, 2, l60.WildcardPairs)
}

func TestLoadCatalog_FileAndDir(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "b.yaml", "levels:\n  - id: 2\n    pairs: 4\n    timeLimitSeconds: 30\n")
	writeCatalog(t, dir, "a.yml", "levels:\n  - id: 1\n    pairs: 3\n    timeLimitSeconds: 20\n    obstacles:\n      ice: 1\n")
	writeCatalog(t, dir, "notes.txt", "not a catalog")

	c, err := LoadCatalog([]string{dir})
	require.NoError(t, err)
	require.Len(t, c.Levels, 2)
	assert.Equal(t, 1, c.Levels[0].ID)
	assert.Equal(t, 1, c.Levels[0].Obstacles.Ice)

	single := writeCatalog(t, t.TempDir(), "one.yaml", "levels:\n  - id: 9\n    pairs: 2\n    timeLimitSeconds: 10\n")
	c, err = LoadCatalog([]string{single})
	require.NoError(t, err)
	assert.Len(t, c.From(9), 1)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := LoadCatalog([]string{"/nonexistent/levels.yaml"})
	assert.Error(t, err)

	bad := writeCatalog(t, t.TempDir(), "bad.yaml", "levels:\n  - id: 1\n    pairs: 0\n    timeLimitSeconds: 10\n")
	_, err = LoadCatalog([]string{bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDescriptor))
}

func TestValidate(t *testing.T) {
	ok := Descriptor{Pairs: 4, TimeLimitSeconds: 30}
	assert.NoError(t, ok.Validate())

	cases := map[string]Descriptor{
		"zero pairs":     {Pairs: 0, TimeLimitSeconds: 30},
		"negative pairs": {Pairs: -2, TimeLimitSeconds: 30},
		"no time":        {Pairs: 4},
		"too many wild":  {Pairs: 2, TimeLimitSeconds: 30, WildcardPairs: 3},
		"negative ice":   {Pairs: 2, TimeLimitSeconds: 30, Obstacles: Obstacles{Ice: -1}},
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, d.Validate(), ErrInvalidDescriptor)
		})
	}
}

func TestDailySeedUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2026, 3, 5, 6, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-04", DailySeed(ts))
}

func TestNewRandIsDeterministicPerStream(t *testing.T) {
	a := NewRand("2026-03-04", StreamCards)
	b := NewRand("2026-03-04", StreamCards)
	c := NewRand("2026-03-04", StreamObstacles)

	var sa, sb, sc []int
	for range 16 {
		sa = append(sa, a.IntN(1000))
		sb = append(sb, b.IntN(1000))
		sc = append(sc, c.IntN(1000))
	}
	assert.Equal(t, sa, sb)
	assert.NotEqual(t, sa, sc)
}

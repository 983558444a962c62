package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twinclash/internal/board"
)

func plainBoard(n int) *board.Board {
	cards := make([]board.Card, n)
	for i := range cards {
		cards[i] = board.Card{ID: i, PairKey: i / 2, Obstacle: board.None}
	}
	return board.New(cards)
}

func TestSide(t *testing.T) {
	assert.Equal(t, 0, board.Side(0))
	assert.Equal(t, 2, board.Side(4))
	assert.Equal(t, 3, board.Side(6))
	assert.Equal(t, 4, board.Side(16))
	assert.Equal(t, 5, board.Side(20))
}

func TestNewLayout(t *testing.T) {
	b := plainBoard(20)
	assert.Equal(t, 5, b.Cols)
	assert.Equal(t, 4, b.Rows)
	assert.Equal(t, 10, b.Pairs)

	b = plainBoard(6)
	assert.Equal(t, 3, b.Cols)
	assert.Equal(t, 2, b.Rows)
}

func TestNeighbors4DoesNotWrap(t *testing.T) {
	b := plainBoard(9) // 3x3

	assert.ElementsMatch(t, []int{1, 3}, b.Neighbors4(0))
	assert.ElementsMatch(t, []int{1, 3, 5, 7}, b.Neighbors4(4))
	// 2 is the end of the first row; 3 starts the next row and is not adjacent.
	assert.ElementsMatch(t, []int{1, 5}, b.Neighbors4(2))
	assert.False(t, b.Adjacent(2, 3))
}

func TestNeighborsOnRaggedLastRow(t *testing.T) {
	b := plainBoard(6) // 3 cols, 2 rows
	assert.ElementsMatch(t, []int{2, 4}, b.Neighbors4(5))

	b = plainBoard(10) // 4 cols, last row holds 8 and 9
	assert.ElementsMatch(t, []int{4, 9}, b.Neighbors4(8))
	assert.ElementsMatch(t, []int{5, 8}, b.Neighbors4(9))
	assert.Equal(t, -1, b.At(2, 2))
}

func TestNeighbors8(t *testing.T) {
	b := plainBoard(16)
	assert.Len(t, b.Neighbors8(0), 3)
	assert.Len(t, b.Neighbors8(5), 8)
	assert.ElementsMatch(t, []int{10, 11, 14}, b.Neighbors8(15))
}

func TestDamagePrefersObstacleHealth(t *testing.T) {
	var c board.Card
	c.SetObstacle(board.Stone)
	require.Equal(t, 2, c.ObstacleHealth)

	assert.False(t, c.Damage())
	assert.Equal(t, board.Stone, c.Obstacle)
	assert.True(t, c.Damage())
	assert.Equal(t, board.None, c.Obstacle)
	assert.False(t, c.Obstructed())

	c.SetObstacle(board.Bomb)
	assert.Equal(t, 0, c.ObstacleHealth)
	assert.Equal(t, 2, c.BlockedHealth)
	assert.False(t, c.Damage())
	assert.True(t, c.Damage())
	assert.Equal(t, board.None, c.Obstacle)
}

func TestConvertedHazardsStartWeak(t *testing.T) {
	var c board.Card
	c.SetObstacle(board.Stone)
	c.Convert(board.Virus)
	assert.Equal(t, 0, c.ObstacleHealth)
	assert.Equal(t, 1, c.BlockedHealth)

	c.Convert(board.Fire)
	assert.Equal(t, board.Fire, c.Obstacle)
	assert.False(t, c.Obstructed())
}

func TestBoardDamageHitsEachCellOnce(t *testing.T) {
	b := plainBoard(9)
	b.Cards[4].SetObstacle(board.Stone)

	destroyed := b.Damage([]int{4, 4, 1})
	assert.Empty(t, destroyed)
	assert.Equal(t, 1, b.Cards[4].ObstacleHealth)

	destroyed = b.Damage([]int{4})
	assert.Equal(t, []int{4}, destroyed)
}

func TestPlayable(t *testing.T) {
	b := plainBoard(4)
	b.Cards[1].SetObstacle(board.Ice)
	b.Cards[2].Matched = true
	b.Cards[3].Flipped = true

	assert.True(t, b.Playable(0))
	assert.False(t, b.Playable(1))
	assert.False(t, b.Playable(2))
	assert.False(t, b.Playable(3))
	assert.False(t, b.Playable(9))
}

func TestPartnerAndCounts(t *testing.T) {
	b := plainBoard(6)
	assert.Equal(t, 1, b.Partner(0))
	assert.Equal(t, 4, b.Partner(5))

	b.Cards[2].SetObstacle(board.Virus)
	assert.True(t, b.Has(board.Virus))
	assert.Equal(t, 1, b.Count(board.Virus))
	assert.False(t, b.Has(board.Bomb))
}

func TestCardViewsHideFaceDownKeys(t *testing.T) {
	b := plainBoard(4)
	b.Cards[0].Flipped = true

	views := board.BuildCardViews(b, []int{2, 3}, false)
	require.Len(t, views, 4)
	require.NotNil(t, views[0].PairKey)
	assert.Nil(t, views[1].PairKey)
	assert.True(t, views[2].Hinted)
	assert.False(t, views[0].Hinted)

	views = board.BuildCardViews(b, nil, true)
	assert.NotNil(t, views[1].PairKey)
}

func TestCloneIsIndependent(t *testing.T) {
	b := plainBoard(4)
	c := b.Clone()
	c.Cards[0].Matched = true
	assert.False(t, b.Cards[0].Matched)
}

func TestParseObstacle(t *testing.T) {
	for _, o := range board.PlacementOrder {
		got, ok := board.ParseObstacle(string(o))
		assert.True(t, ok, o)
		assert.Equal(t, o, got)
	}

	got, ok := board.ParseObstacle("")
	assert.True(t, ok)
	assert.Equal(t, board.None, got)

	got, ok = board.ParseObstacle("lava")
	assert.False(t, ok)
	assert.Equal(t, board.None, got)
}

func TestObstacleKinds(t *testing.T) {
	assert.True(t, board.Fire.Hazard())
	assert.True(t, board.Bomb.Hazard())
	assert.True(t, board.Virus.Hazard())
	assert.False(t, board.Ice.Hazard())
	assert.False(t, board.None.Hazard())

	assert.True(t, board.Stone.Heavy())
	assert.True(t, board.Iron.Heavy())
	assert.False(t, board.Fire.Heavy())
}

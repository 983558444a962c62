package board

import (
	"math"
	"slices"
)

// Board is a square-ish grid of cards laid out in reading order.
type Board struct {
	Cards []Card `json:"cards"`
	Cols  int    `json:"cols"`
	Rows  int    `json:"rows"`
	Pairs int    `json:"pairs"`
}

// Side returns the column count for n cards: ceil(sqrt(n)).
func Side(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// New lays cards out on a grid of Side(len(cards)) columns.
func New(cards []Card) *Board {
	cols := Side(len(cards))
	rows := 0
	if cols > 0 {
		rows = (len(cards) + cols - 1) / cols
	}
	return &Board{
		Cards: cards,
		Cols:  cols,
		Rows:  rows,
		Pairs: len(cards) / 2,
	}
}

func (b *Board) Len() int {
	return len(b.Cards)
}

// Pos returns the grid coordinates of index i.
func (b *Board) Pos(i int) (row, col int) {
	return i / b.Cols, i % b.Cols
}

// At returns the index at (row, col), or -1 when the cell is off the grid or empty.
func (b *Board) At(row, col int) int {
	if row < 0 || col < 0 || col >= b.Cols {
		return -1
	}
	i := row*b.Cols + col
	if i >= len(b.Cards) {
		return -1
	}
	return i
}

// Neighbors4 returns the orthogonal neighbours of i. The grid does not wrap.
func (b *Board) Neighbors4(i int) []int {
	row, col := b.Pos(i)
	out := make([]int, 0, 4)
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		if j := b.At(row+d[0], col+d[1]); j >= 0 {
			out = append(out, j)
		}
	}
	return out
}

// Neighbors8 returns the 3x3 ring around i, clipped to the grid.
func (b *Board) Neighbors8(i int) []int {
	row, col := b.Pos(i)
	out := make([]int, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if j := b.At(row+dr, col+dc); j >= 0 {
				out = append(out, j)
			}
		}
	}
	return out
}

// Adjacent reports whether i and j share an edge.
func (b *Board) Adjacent(i, j int) bool {
	return slices.Contains(b.Neighbors4(i), j)
}

// IndexOf returns the board index of the card with the given id, or -1.
func (b *Board) IndexOf(id int) int {
	for i := range b.Cards {
		if b.Cards[i].ID == id {
			return i
		}
	}
	return -1
}

// Partner returns the index of the other card sharing i's pair key, or -1.
func (b *Board) Partner(i int) int {
	key := b.Cards[i].PairKey
	for j := range b.Cards {
		if j != i && b.Cards[j].PairKey == key {
			return j
		}
	}
	return -1
}

// Playable reports whether a flip on i may proceed.
func (b *Board) Playable(i int) bool {
	if i < 0 || i >= len(b.Cards) {
		return false
	}
	c := b.Cards[i]
	return !c.Matched && !c.Flipped && !c.Obstructed()
}

// Count returns how many unmatched cards currently carry o.
func (b *Board) Count(o Obstacle) int {
	n := 0
	for _, c := range b.Cards {
		if !c.Matched && c.Obstacle == o {
			n++
		}
	}
	return n
}

func (b *Board) Has(o Obstacle) bool {
	return b.Count(o) > 0
}

// HasHealth reports whether an unmatched card of type o still has health left.
func (b *Board) HasHealth(o Obstacle) bool {
	for _, c := range b.Cards {
		if !c.Matched && c.Obstacle == o && c.Obstructed() {
			return true
		}
	}
	return false
}

// MatchedPairs counts fully matched pair keys.
func (b *Board) MatchedPairs() int {
	n := 0
	for _, c := range b.Cards {
		if c.Matched {
			n++
		}
	}
	return n / 2
}

// Damage hits every index in targets once, skipping matched cards and
// duplicates. It returns the indices whose obstacle was destroyed.
func (b *Board) Damage(targets []int) (destroyed []int) {
	seen := make(map[int]bool, len(targets))
	for _, j := range targets {
		if seen[j] || j < 0 || j >= len(b.Cards) {
			continue
		}
		seen[j] = true
		c := &b.Cards[j]
		if c.Matched || !c.Obstructed() {
			continue
		}
		if c.Damage() {
			destroyed = append(destroyed, j)
		}
	}
	return destroyed
}

func (b *Board) Clone() *Board {
	out := *b
	out.Cards = slices.Clone(b.Cards)
	return &out
}

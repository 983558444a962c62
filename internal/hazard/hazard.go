// Package hazard implements the spreading obstacles: virus infection and bomb
// combustion.
package hazard

import (
	"math/rand/v2"
	"slices"

	"twinclash/internal/board"
)

// Infect lets every virus card spread to one random orthogonal neighbour.
// Converted cards do not spread again in the same tick.
func Infect(b *board.Board, rng *rand.Rand, exclude []int) []int {
	return spread(b, rng, board.Virus, board.Virus, exclude)
}

// Combust lets every bomb card set one random orthogonal neighbour on fire.
func Combust(b *board.Board, rng *rand.Rand, exclude []int) []int {
	return spread(b, rng, board.Bomb, board.Fire, exclude)
}

// Present reports whether an unmatched card still carries o.
func Present(b *board.Board, o board.Obstacle) bool {
	return b.Has(o)
}

// Sources returns the unmatched cards carrying o, in board order.
func Sources(b *board.Board, o board.Obstacle) []int {
	var out []int
	for i, c := range b.Cards {
		if !c.Matched && c.Obstacle == o {
			out = append(out, i)
		}
	}
	return out
}

// Target reports whether a spread may land on card i.
func Target(b *board.Board, i int, exclude []int) bool {
	c := b.Cards[i]
	return !c.Matched && !c.Obstacle.Hazard() && !slices.Contains(exclude, i)
}

func spread(b *board.Board, rng *rand.Rand, from, to board.Obstacle, exclude []int) []int {
	var converted []int
	for _, src := range Sources(b, from) {
		var targets []int
		for _, n := range b.Neighbors4(src) {
			if Target(b, n, exclude) {
				targets = append(targets, n)
			}
		}
		if len(targets) == 0 {
			continue
		}
		t := targets[rng.IntN(len(targets))]
		b.Cards[t].Convert(to)
		converted = append(converted, t)
	}
	return converted
}

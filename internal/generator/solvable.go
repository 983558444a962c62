package generator

import "twinclash/internal/board"

// Solvable reports whether a player who only ever matches unlocked pairs can
// clear the whole board.
func Solvable(b *board.Board) bool {
	return len(Unreachable(b)) == 0
}

// Unreachable simulates that player on a copy of b and returns the indices of
// cards left unmatched once no unlocked pair remains. Matching only removes
// obstacles, so the order of matches does not change the result.
func Unreachable(b *board.Board) []int {
	sim := b.Clone()
	for progress := true; progress; {
		progress = false
		for i := range sim.Cards {
			if sim.Cards[i].Matched || sim.Cards[i].Obstructed() {
				continue
			}
			j := sim.Partner(i)
			if j < 0 || sim.Cards[j].Matched || sim.Cards[j].Obstructed() {
				continue
			}
			sim.Cards[i].Matched = true
			sim.Cards[j].Matched = true
			sim.Damage(append(sim.Neighbors4(i), sim.Neighbors4(j)...))
			progress = true
		}
	}

	var out []int
	for i, c := range sim.Cards {
		if !c.Matched {
			out = append(out, i)
		}
	}
	return out
}

// Package generator builds shuffled boards with obstacles placed so that every
// card can still be reached by adjacency damage.
package generator

import (
	"math"
	"math/rand/v2"

	"twinclash/internal/board"
	"twinclash/internal/config"
	"twinclash/internal/level"
)

// Params controls the protected (obstacle-free) share of the board.
type Params struct {
	ProtectedFraction float64
	MinProtectedPairs int
}

// ParamsFromRules picks the generator settings out of the engine rules.
func ParamsFromRules(r config.Rules) Params {
	return Params{
		ProtectedFraction: r.ProtectedFraction,
		MinProtectedPairs: r.MinProtectedPairs,
	}
}

// Generate builds the board for d. Card order and obstacle placement come from
// separate streams of d.Seed so that a fixed seed always yields the same board.
func Generate(d level.Descriptor, p Params) (*board.Board, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return build(d, p, level.NewRand(d.Seed, level.StreamCards), level.NewRand(d.Seed, level.StreamObstacles)), nil
}

func build(d level.Descriptor, p Params, cardRNG, obstacleRNG *rand.Rand) *board.Board {
	cards := make([]board.Card, 0, d.Pairs*2)
	for key := 0; key < d.Pairs; key++ {
		wild := key >= d.Pairs-d.WildcardPairs
		for k := 0; k < 2; k++ {
			cards = append(cards, board.Card{
				ID:       key*2 + k,
				PairKey:  key,
				Obstacle: board.None,
				Wildcard: wild,
			})
		}
	}

	// Fisher-Yates
	for i := len(cards) - 1; i > 0; i-- {
		j := cardRNG.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	b := board.New(cards)
	if d.Obstacles.Total() == 0 {
		return b
	}

	protected := protectedKeys(b, protectedCount(d.Pairs, p))

	candidates := make([]int, 0, len(cards))
	for i, c := range b.Cards {
		if !protected[c.PairKey] {
			candidates = append(candidates, i)
		}
	}
	obstacleRNG.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	occupied := make(map[int]bool, len(candidates))
	for _, t := range board.PlacementOrder {
		want := d.Obstacles.Count(t)
		placed := 0
		for _, idx := range candidates {
			if placed == want {
				break
			}
			if occupied[idx] || !canPlace(b, idx, t, occupied) {
				continue
			}
			b.Cards[idx].SetObstacle(t)
			if !Solvable(b) {
				b.Cards[idx].ClearObstacle()
				continue
			}
			occupied[idx] = true
			placed++
		}
	}
	return b
}

// protectedCount is max(min, ceil(pairs * fraction)), capped at pairs.
func protectedCount(pairs int, p Params) int {
	n := int(math.Ceil(float64(pairs) * p.ProtectedFraction))
	n = max(n, p.MinProtectedPairs)
	return min(n, pairs)
}

// protectedKeys returns the first n pair keys in order of first appearance.
func protectedKeys(b *board.Board, n int) map[int]bool {
	keys := make(map[int]bool, n)
	for _, c := range b.Cards {
		if len(keys) == n {
			break
		}
		keys[c.PairKey] = true
	}
	return keys
}

// canPlace applies the pair-reachability and heavy-clustering rules.
func canPlace(b *board.Board, idx int, t board.Obstacle, occupied map[int]bool) bool {
	if partner := b.Partner(idx); partner >= 0 {
		access := false
		for _, n := range b.Neighbors4(partner) {
			if n != idx && !occupied[n] {
				access = true
				break
			}
		}
		if !access {
			return false
		}
	}

	if t.Heavy() {
		for _, n := range b.Neighbors4(idx) {
			if b.Cards[n].Obstacle.Heavy() {
				return false
			}
		}
	}
	return true
}

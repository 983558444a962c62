package state

import (
	"context"
	"slices"

	"twinclash/internal/board"
	"twinclash/internal/generator"
	"twinclash/internal/schedule"
)

// scrambleAttempts bounds how many re-deals are tried before a bomb
// punishment gives up and leaves the board as it was.
const scrambleAttempts = 8

// pairMatches reports whether two face-up cards form a pair. A wildcard
// matches anything.
func (s *State) pairMatches(a, b int) bool {
	ca, cb := s.Board.Cards[a], s.Board.Cards[b]
	return ca.PairKey == cb.PairKey || ca.Wildcard || cb.Wildcard
}

func (s *State) faceDownPending() {
	for _, i := range s.pending {
		if !s.Board.Cards[i].Matched {
			s.Board.Cards[i].Flipped = false
		}
	}
	s.pending = nil
}

func (s *State) resolveMatch() MatchEvent {
	a, b := s.pending[0], s.pending[1]
	s.relinkWildcard(a, b)

	for _, i := range []int{a, b} {
		c := &s.Board.Cards[i]
		c.Matched = true
		c.Flipped = true
		c.ClearObstacle()
	}
	s.pending = nil
	s.MatchedPairs++
	s.ConsecutiveMisses = 0
	s.Streak++
	s.clearHint()

	ev := MatchEvent{
		First:    a,
		Second:   b,
		Adjacent: s.Board.Adjacent(a, b),
	}
	ev.Destroyed = s.Board.Damage(append(s.Board.Neighbors4(a), s.Board.Neighbors4(b)...))

	if s.clusterBreakerArmed() && s.Streak >= s.Rules.ComboThreshold {
		var ice []int
		for _, n := range s.Board.Neighbors8(b) {
			if s.Board.Cards[n].Obstacle == board.Ice {
				ice = append(ice, n)
			}
		}
		ev.Destroyed = append(ev.Destroyed, s.Board.Damage(ice)...)
		ev.ClusterBreak = true
		s.Streak = 0
	}

	s.DestroyedObstacles += len(ev.Destroyed)
	return ev
}

// clusterBreakerArmed is true while ice is the only damageable obstacle
// with health left on the board.
func (s *State) clusterBreakerArmed() bool {
	if s.Rules.ComboThreshold <= 0 || !s.Board.HasHealth(board.Ice) {
		return false
	}
	for _, c := range s.Board.Cards {
		if !c.Matched && c.Obstructed() && c.Obstacle != board.Ice {
			return false
		}
	}
	return true
}

// relinkWildcard keeps every key on exactly two cards after a wildcard stood
// in for another key: the matched pair shares the wildcard's key and the
// wildcard's twin takes over the other key.
func (s *State) relinkWildcard(a, b int) {
	cards := s.Board.Cards
	if cards[a].PairKey == cards[b].PairKey {
		return
	}
	ta, tb := s.Board.Partner(a), s.Board.Partner(b)
	if ta < 0 || tb < 0 {
		return
	}
	if !cards[a].Wildcard {
		a, b, ta, tb = b, a, tb, ta
	}

	ka, kb := cards[a].PairKey, cards[b].PairKey
	cards[b].PairKey = ka
	cards[ta].PairKey = kb
	cards[ta].Wildcard = cards[tb].Wildcard
}

func (s *State) resolveMismatch() MismatchEvent {
	a, b := s.pending[0], s.pending[1]
	s.Mistakes++
	s.ConsecutiveMisses++
	s.Streak = 0

	ev := MismatchEvent{First: a, Second: b}
	if s.carries(a, b, board.Fire) {
		ev.Penalty += s.Rules.FirePenalty
	}
	if s.carries(a, b, board.Virus) {
		ev.Penalty += s.Rules.VirusPenalty
	}
	if s.carries(a, b, board.Bomb) {
		ev.Bomb = true
		ev.Scrambled = s.scramble(a, b)
		if slices.ContainsFunc(s.Hint, func(i int) bool { return slices.Contains(ev.Scrambled, i) }) {
			s.clearHint()
		}
	}

	if s.Rules.HintAfterMisses > 0 && s.ConsecutiveMisses >= s.Rules.HintAfterMisses && len(s.Hint) == 0 {
		s.showHint()
	}
	return ev
}

func (s *State) carries(a, b int, o board.Obstacle) bool {
	return s.Board.Cards[a].Obstacle == o || s.Board.Cards[b].Obstacle == o
}

// scramble re-deals pair keys among up to BombScrambleMax face-down playable
// cards, taken as whole pairs so every key still appears exactly twice.
// A re-deal that would leave the board unsolvable is rolled back.
func (s *State) scramble(a, b int) []int {
	var keys []int
	for i, c := range s.Board.Cards {
		if i == a || i == b || !s.Board.Playable(i) || slices.Contains(keys, c.PairKey) {
			continue
		}
		j := s.Board.Partner(i)
		if j < 0 || j == a || j == b || !s.Board.Playable(j) {
			continue
		}
		keys = append(keys, c.PairKey)
	}
	s.Rand.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	keys = keys[:min(len(keys), s.Rules.BombScrambleMax/2)]
	if len(keys) < 2 {
		return nil
	}

	var cards []int
	for i, c := range s.Board.Cards {
		if slices.Contains(keys, c.PairKey) {
			cards = append(cards, i)
		}
	}
	before := make([]board.Card, len(cards))
	for k, i := range cards {
		before[k] = s.Board.Cards[i]
	}

	for range scrambleAttempts {
		faces := make([]board.Card, len(before))
		copy(faces, before)
		s.Rand.Shuffle(len(faces), func(i, j int) {
			faces[i], faces[j] = faces[j], faces[i]
		})
		for k, i := range cards {
			s.Board.Cards[i].PairKey = faces[k].PairKey
			s.Board.Cards[i].Wildcard = faces[k].Wildcard
		}
		if generator.Solvable(s.Board) {
			return cards
		}
	}

	for k, i := range cards {
		s.Board.Cards[i] = before[k]
	}
	return nil
}

// showHint flags one pair of face-down unmatched cards, preferring a pair
// that can be flipped right now.
func (s *State) showHint() {
	var fallback []int
	for i, c := range s.Board.Cards {
		if c.Matched || c.Flipped {
			continue
		}
		j := s.Board.Partner(i)
		if j < i || s.Board.Cards[j].Matched || s.Board.Cards[j].Flipped {
			continue
		}
		if s.Board.Playable(i) && s.Board.Playable(j) {
			s.setHint([]int{i, j})
			return
		}
		if fallback == nil {
			fallback = []int{i, j}
		}
	}
	if fallback != nil {
		s.setHint(fallback)
	}
}

func (s *State) setHint(pair []int) {
	s.Hint = pair
	s.Clock.Schedule(schedule.Task{
		Name:     TaskHint,
		Priority: schedule.PriorityHint,
		Delay:    s.Rules.HintDuration,
		Run: func() {
			s.Hint = nil
		},
	})
}

func (s *State) clearHint() {
	s.Hint = nil
	s.Clock.Cancel(TaskHint)
}

// RevealPairs is the reveal power-up. It picks max(1, remaining*percent/100)
// pairs, obstructed ones first. A pair holding a card with two or more health
// only has those cards cracked; any other pair is cleared and matched.
// It returns the number of pairs matched and only works while idle.
func (s *State) RevealPairs(percent int) int {
	if !s.FSM.Is(PhaseIdle) {
		return 0
	}

	type pair struct{ a, b int }
	var obstructed, clean []pair
	for i, c := range s.Board.Cards {
		if c.Matched || c.Flipped {
			continue
		}
		j := s.Board.Partner(i)
		if j < i || s.Board.Cards[j].Matched || s.Board.Cards[j].Flipped {
			continue
		}
		if c.Obstructed() || s.Board.Cards[j].Obstructed() {
			obstructed = append(obstructed, pair{i, j})
		} else {
			clean = append(clean, pair{i, j})
		}
	}
	candidates := append(obstructed, clean...)
	if len(candidates) == 0 {
		return 0
	}

	remaining := s.Board.Pairs - s.MatchedPairs
	n := min(max(1, remaining*percent/100), len(candidates))

	matched := 0
	for _, p := range candidates[:n] {
		ca, cb := &s.Board.Cards[p.a], &s.Board.Cards[p.b]
		if ca.Health() >= 2 || cb.Health() >= 2 {
			for _, c := range []*board.Card{ca, cb} {
				if c.Health() >= 2 {
					c.Damage()
				}
			}
			continue
		}
		for _, c := range []*board.Card{ca, cb} {
			c.ClearObstacle()
			c.Matched = true
			c.Flipped = true
		}
		s.MatchedPairs++
		matched++
	}

	if matched > 0 {
		s.clearHint()
	}
	if s.MatchedPairs >= s.Board.Pairs {
		s.Win = true
		_ = s.FSM.Event(context.Background(), "complete")
	}
	return matched
}

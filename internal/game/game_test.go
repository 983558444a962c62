package game

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"twinclash/internal/board"
	"twinclash/internal/level"
	"twinclash/internal/scoring"
	"twinclash/internal/state"
)

func testBoard(keys ...int) *board.Board {
	cards := make([]board.Card, len(keys))
	for i, k := range keys {
		cards[i] = board.Card{ID: i, PairKey: k, Obstacle: board.None}
	}
	return board.New(cards)
}

func newTestGame(t *testing.T, d level.Descriptor, b *board.Board) *Game {
	t.Helper()
	if d.Pairs == 0 {
		d.Pairs = b.Pairs
	}
	if d.TimeLimitSeconds == 0 {
		d.TimeLimitSeconds = 60
	}
	g, err := NewGame(d, Options{Board: b, Rand: rand.New(rand.NewPCG(1, 2))})
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	g.Init()
	return g
}

// playPerfect matches the first flippable pair until the attempt ends.
func playPerfect(t *testing.T, g *Game) {
	t.Helper()
	for !g.Done() {
		b := g.State.Board
		first, second := -1, -1
		for i := range b.Cards {
			if !b.Playable(i) {
				continue
			}
			if j := b.Partner(i); j >= 0 && b.Playable(j) {
				first, second = i, j
				break
			}
		}
		if first < 0 {
			t.Fatalf("No flippable pair left with %d/%d matched", g.State.MatchedPairs, b.Pairs)
		}
		if !g.HandleFlip(b.Cards[first].ID) || !g.HandleFlip(b.Cards[second].ID) {
			t.Fatalf("Flip of pair %d/%d rejected in phase %s", first, second, g.State.Phase())
		}
	}
}

func TestGame_PerfectRunWinsEveryBoard(t *testing.T) {
	for i := 0; i < 1000; i++ {
		d := level.Descriptor{
			Pairs:            10,
			TimeLimitSeconds: 60,
			Obstacles:        level.Obstacles{Ice: 5},
			Seed:             fmt.Sprintf("perfect-%d", i),
		}
		g, err := NewGame(d, Options{})
		if err != nil {
			t.Fatalf("NewGame failed: %v", err)
		}
		g.Init()
		playPerfect(t, g)

		o, _ := g.Outcome()
		if !o.Won() || o.MovesUsed != 10 || o.Mistakes != 0 || o.Stars != 3 {
			t.Fatalf("Seed %s: unexpected outcome %+v", d.Seed, o)
		}
	}
}

func TestGame_PerfectRunOnHazardLevel(t *testing.T) {
	cat, err := level.Default()
	if err != nil {
		t.Fatalf("Default catalog failed: %v", err)
	}
	for _, d := range cat.Levels {
		d.Seed = "hazard-run"
		g, err := NewGame(d, Options{})
		if err != nil {
			t.Fatalf("Level %s: %v", d.Name(), err)
		}
		g.Init()
		playPerfect(t, g)
		if o, _ := g.Outcome(); !o.Won() {
			t.Fatalf("Level %s: expected win, got %+v", d.Name(), o)
		}
	}
}

func TestGame_Timeout(t *testing.T) {
	g := newTestGame(t, level.Descriptor{TimeLimitSeconds: 5}, testBoard(0, 1, 0, 1))

	g.HandleTick(4 * time.Second)
	if g.Done() {
		t.Fatal("Attempt should still be running")
	}
	if got := g.TimeRemaining(); got != time.Second {
		t.Errorf("Expected 1s left, got %v", got)
	}

	g.HandleTick(time.Second)
	o, ok := g.Outcome()
	if !ok {
		t.Fatal("Expected an outcome after the deadline")
	}
	if o.Won() || o.FailureReason != state.FailureTimeout || o.TimeUsedMs != 5000 || o.Stars != 0 {
		t.Errorf("Unexpected outcome %+v", o)
	}
	if g.TimeRemaining() != 0 {
		t.Errorf("Expected no time left, got %v", g.TimeRemaining())
	}
	if g.HandleFlip(0) {
		t.Error("Flip after the end should be ignored")
	}
}

func TestGame_OutcomeEmittedOnce(t *testing.T) {
	g := newTestGame(t, level.Descriptor{}, testBoard(0, 1, 0, 1))
	var got []scoring.Outcome
	g.OnOutcome(func(o scoring.Outcome) { got = append(got, o) })

	playPerfect(t, g)
	g.HandleTick(time.Minute)
	if g.Abandon() {
		t.Error("Abandon after a win should be a no-op")
	}

	if len(got) != 1 || !got[0].Won() {
		t.Fatalf("Expected one winning outcome, got %+v", got)
	}

	late := 0
	g.OnOutcome(func(scoring.Outcome) { late++ })
	if late != 1 {
		t.Errorf("Late listener should be called once, got %d", late)
	}
}

func TestGame_StarsUseVirtualTime(t *testing.T) {
	g := newTestGame(t, level.Descriptor{}, testBoard(0, 1, 0, 1))
	g.HandleTick(2 * time.Second)
	playPerfect(t, g)

	o, _ := g.Outcome()
	// 2 pairs: 3 stars need 3000ms or less.
	if o.TimeUsedMs != 2000 || o.Stars != 3 {
		t.Errorf("Unexpected outcome %+v", o)
	}

	g = newTestGame(t, level.Descriptor{}, testBoard(0, 1, 0, 1))
	g.HandleTick(4 * time.Second)
	playPerfect(t, g)
	if o, _ := g.Outcome(); o.Stars != 2 {
		t.Errorf("Expected 2 stars past the time target, got %+v", o)
	}
}

func TestGame_PreviewHoldsClock(t *testing.T) {
	g := newTestGame(t, level.Descriptor{PreviewSeconds: 5, TimeLimitSeconds: 30}, testBoard(0, 1, 0, 1))

	snap := g.Snapshot()
	if snap.Phase != state.PhasePreview || snap.PreviewRemainingMs != 5000 {
		t.Fatalf("Expected preview snapshot, got phase %s preview %d", snap.Phase, snap.PreviewRemainingMs)
	}
	for _, c := range snap.Cards {
		if c.PairKey == nil {
			t.Fatal("Preview should show every card")
		}
	}
	if g.HandleFlip(0) {
		t.Error("Flip during preview should be ignored")
	}

	g.HandleTick(3 * time.Second)
	if got := g.TimeRemaining(); got != 30*time.Second {
		t.Errorf("Countdown should not run during preview, got %v", got)
	}

	g.HandleTick(4 * time.Second)
	if g.State.Phase() != state.PhaseIdle {
		t.Fatalf("Expected idle after preview, got %s", g.State.Phase())
	}
	if got := g.TimeRemaining(); got != 28*time.Second {
		t.Errorf("Expected 28s left, got %v", got)
	}
	if snap := g.Snapshot(); snap.Cards[0].PairKey != nil {
		t.Error("Face-down card should hide its key after preview")
	}
}

func TestGame_AbandonDuringPreview(t *testing.T) {
	g := newTestGame(t, level.Descriptor{PreviewSeconds: 5}, testBoard(0, 1, 0, 1))
	if !g.Abandon() {
		t.Fatal("Abandon should end the attempt")
	}
	o, _ := g.Outcome()
	if o.FailureReason != state.FailureAbandoned || o.TimeUsedMs != 0 {
		t.Errorf("Unexpected outcome %+v", o)
	}
	if g.clock.Active(taskPreview) {
		t.Error("Preview task should be torn down")
	}
}

func TestGame_FirePenaltyShortensDeadline(t *testing.T) {
	b := testBoard(0, 1, 0, 1)
	b.Cards[0].Convert(board.Fire)
	g := newTestGame(t, level.Descriptor{TimeLimitSeconds: 30}, b)

	g.HandleFlip(0)
	g.HandleFlip(1)
	if got := g.TimeRemaining(); got != 20*time.Second {
		t.Errorf("Expected 20s after fire penalty, got %v", got)
	}
}

func TestGame_PenaltyCanTimeOut(t *testing.T) {
	b := testBoard(0, 1, 0, 1)
	b.Cards[0].Convert(board.Fire)
	g := newTestGame(t, level.Descriptor{TimeLimitSeconds: 8}, b)

	g.HandleFlip(0)
	g.HandleFlip(1)
	o, ok := g.Outcome()
	if !ok || o.FailureReason != state.FailureTimeout {
		t.Fatalf("Expected timeout from penalty, got %+v", o)
	}
	if g.clock.Active(state.TaskFlipBack) {
		t.Error("Flip-back should be cancelled on timeout")
	}
}

func TestGame_StallExplodesBomb(t *testing.T) {
	// 3 columns: 0 1 2 / 3 4 5
	b := testBoard(0, 0, 1, 2, 1, 2)
	b.Cards[5].Convert(board.Bomb)
	g := newTestGame(t, level.Descriptor{HazardMode: true}, b)

	g.HandleTick(10 * time.Second)
	g.HandleFlip(0)
	g.HandleFlip(1)
	g.HandleTick(10 * time.Second)
	if g.Done() {
		t.Fatal("Adjacent match should reset the stall window")
	}

	g.HandleTick(5 * time.Second)
	o, ok := g.Outcome()
	if !ok || o.FailureReason != state.FailureBombExplosion || o.TimeUsedMs != 25000 {
		t.Fatalf("Expected bomb explosion at 25s, got %+v", o)
	}
	for _, name := range []string{taskStall, taskDeadline} {
		if g.clock.Active(name) {
			t.Errorf("Task %s should be cancelled", name)
		}
	}
}

func TestGame_StallInfectsWithoutBomb(t *testing.T) {
	b := testBoard(0, 0, 1, 2, 1, 2)
	b.Cards[3].Convert(board.Virus)
	g := newTestGame(t, level.Descriptor{HazardMode: true}, b)

	g.HandleTick(g.Rules.StallWindow)
	if g.Done() {
		t.Fatal("Stall without bomb should not end the attempt")
	}
	if n := g.State.Board.Count(board.Virus); n != 2 {
		t.Errorf("Expected stall to spread the virus once, got %d virus cards", n)
	}
}

func TestGame_InfectionSpreadsAndTearsDown(t *testing.T) {
	b := testBoard(0, 0, 1, 2, 1, 2)
	b.Cards[3].Convert(board.Virus)
	g := newTestGame(t, level.Descriptor{ProgressiveVirus: true}, b)

	if !g.clock.Active(taskInfection) {
		t.Fatal("Infection should be armed")
	}
	g.HandleTick(g.Rules.InfectionPeriod)
	if n := g.State.Board.Count(board.Virus); n != 2 {
		t.Fatalf("Expected 2 virus cards after one tick, got %d", n)
	}

	g2 := newTestGame(t, level.Descriptor{ProgressiveVirus: true, TimeLimitSeconds: 600}, func() *board.Board {
		b := testBoard(0, 0, 1, 2, 1, 2)
		b.Cards[3].Convert(board.Virus)
		return b
	}())
	g2.HandleFlip(0)
	g2.HandleFlip(1)
	if g2.State.Board.Has(board.Virus) {
		t.Fatal("Adjacent match should defuse the virus")
	}
	if g2.clock.Active(taskInfection) {
		t.Error("Infection should be torn down once no virus remains")
	}

	g2.HandleTick(3 * g2.Rules.InfectionPeriod)
	if n := g2.State.Board.Count(board.Virus); n != 0 {
		t.Errorf("Expected no virus after teardown, got %d", n)
	}
	if g2.Done() {
		t.Error("Attempt should still be running")
	}
}

func TestGame_CombustionTearsDown(t *testing.T) {
	// 0 1 0
	// 2 B 2
	// 3 1
	b := testBoard(0, 1, 0, 2, 3, 2, 3, 1)
	b.Cards[4].SetObstacle(board.Bomb)
	g := newTestGame(t, level.Descriptor{ProgressiveBomb: true, TimeLimitSeconds: 600}, b)

	if !g.clock.Active(taskCombustion) {
		t.Fatal("Combustion should be armed")
	}

	g.HandleFlip(1)
	g.HandleFlip(7)
	if !g.State.Board.Has(board.Bomb) {
		t.Fatal("One match should only crack the bomb")
	}
	if !g.clock.Active(taskCombustion) {
		t.Fatal("Combustion should stay armed while the bomb remains")
	}

	g.HandleFlip(3)
	g.HandleFlip(5)
	if g.State.Board.Has(board.Bomb) {
		t.Fatal("Second adjacent match should destroy the bomb")
	}
	if g.clock.Active(taskCombustion) {
		t.Error("Combustion should be torn down once no bomb remains")
	}

	fires := g.State.Board.Count(board.Fire)
	g.HandleTick(3 * g.Rules.CombustionPeriod)
	if n := g.State.Board.Count(board.Fire); n != fires {
		t.Errorf("Fire count changed after teardown: %d -> %d", fires, n)
	}
	if g.Done() {
		t.Error("Attempt should still be running")
	}
}

func TestGame_CombustionIgnitesNeighbour(t *testing.T) {
	b := testBoard(0, 0, 1, 2, 1, 2)
	b.Cards[5].Convert(board.Bomb)
	g := newTestGame(t, level.Descriptor{ProgressiveBomb: true}, b)

	g.HandleTick(g.Rules.CombustionPeriod - time.Second)
	if g.State.Board.Has(board.Fire) {
		t.Fatal("Combustion fired early")
	}
	g.HandleTick(time.Second)
	if n := g.State.Board.Count(board.Fire); n != 1 {
		t.Errorf("Expected one card on fire, got %d", n)
	}
}

func TestGame_HazardsNotArmedWhenDisabled(t *testing.T) {
	b := testBoard(0, 0, 1, 2, 1, 2)
	b.Cards[3].Convert(board.Virus)
	g := newTestGame(t, level.Descriptor{}, b)

	g.HandleTick(45 * time.Second)
	if n := g.State.Board.Count(board.Virus); n != 1 {
		t.Errorf("Virus should not spread without progressive mode, got %d", n)
	}
}

func TestGame_Freeze(t *testing.T) {
	g := newTestGame(t, level.Descriptor{TimeLimitSeconds: 30}, testBoard(0, 1, 0, 1))

	if !g.UseFreeze() {
		t.Fatal("First freeze should be accepted")
	}
	if g.UseFreeze() {
		t.Error("Freeze works once per attempt")
	}
	g.HandleTick(5 * time.Second)
	if got := g.TimeRemaining(); got != 30*time.Second {
		t.Errorf("Countdown should be held, got %v", got)
	}
	if !g.Snapshot().Frozen {
		t.Error("Snapshot should report the freeze")
	}

	g.HandleTick(5 * time.Second)
	g.HandleTick(5 * time.Second)
	if got := g.TimeRemaining(); got != 25*time.Second {
		t.Errorf("Expected 25s after thaw, got %v", got)
	}
}

func TestGame_RevealCanWin(t *testing.T) {
	g := newTestGame(t, level.Descriptor{}, testBoard(0, 1, 0, 1))

	if n := g.UseReveal(100); n != 2 {
		t.Fatalf("Expected both pairs revealed, got %d", n)
	}
	o, ok := g.Outcome()
	if !ok || !o.Won() || o.MovesUsed != 0 {
		t.Errorf("Unexpected outcome %+v", o)
	}
	if g.UseReveal(100) != 0 {
		t.Error("Reveal works once per attempt")
	}
}

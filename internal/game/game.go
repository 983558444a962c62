// Package game runs one attempt at a level: it owns the board, the match
// engine and the virtual clock that drives the countdown and the hazards.
package game

import (
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"twinclash/internal/board"
	"twinclash/internal/config"
	"twinclash/internal/generator"
	"twinclash/internal/hazard"
	"twinclash/internal/level"
	"twinclash/internal/schedule"
	"twinclash/internal/scoring"
	"twinclash/internal/state"
)

// Tasks owned by the attempt. The match engine owns flip-back and hint.
const (
	taskPreview    = "preview"
	taskThaw       = "freeze"
	taskInfection  = "infection"
	taskCombustion = "combustion"
	taskStall      = "stall"
	taskDeadline   = "deadline"
)

// Options override the defaults of NewGame. Zero values are fine.
type Options struct {
	Rules  *config.Rules
	Logger *log.Logger
	// Board replaces the generated board. Used by tests and replays.
	Board *board.Board
	Rand  *rand.Rand
}

// Game encapsulates one attempt, independent of the UI. It is safe for
// concurrent use; every public method runs under one lock.
type Game struct {
	State *state.State
	Level level.Descriptor
	Rules config.Rules

	mu         sync.Mutex
	clock      *schedule.Scheduler
	rng        *rand.Rand
	logger     *log.Logger
	started    bool
	startedAt  time.Duration
	freezeUsed bool
	revealUsed bool
	timeLeft   time.Duration
	outcome    *scoring.Outcome
	emitted    bool
	listeners  []func(scoring.Outcome)
}

// NewGame builds the board for d and wires the engine to a fresh clock.
func NewGame(d level.Descriptor, opts Options) (*Game, error) {
	rules := config.DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}

	b := opts.Board
	if b == nil {
		var err error
		b, err = generator.Generate(d, generator.ParamsFromRules(rules))
		if err != nil {
			return nil, err
		}
	} else if err := d.Validate(); err != nil {
		return nil, err
	}

	rng := opts.Rand
	if rng == nil {
		rng = level.NewRand(d.Seed, level.StreamHazards)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := &Game{
		Level:    d,
		Rules:    rules,
		clock:    schedule.New(),
		rng:      rng,
		logger:   logger.With("level", d.Name()),
		timeLeft: d.TimeLimit(),
	}
	g.State = state.NewState(b, rules, g.clock, rng)
	g.State.Listener = (*listener)(g)
	return g, nil
}

// Init starts the attempt, with the preview phase when the level has one.
func (g *Game) Init() {
	g.applyMutation(func() {
		preview := g.Level.Preview()
		if preview <= 0 {
			g.State.Init(false)
			g.begin()
			return
		}

		g.State.Init(true)
		g.clock.Schedule(schedule.Task{
			Name:     taskPreview,
			Priority: schedule.PriorityPreview,
			Delay:    preview,
			Run: func() {
				if g.State.Begin() {
					g.begin()
				}
			},
		})
		g.logger.Debug("preview", "duration", preview)
	})
}

// begin arms the countdown and the hazard clocks once cards can be flipped.
func (g *Game) begin() {
	if g.State.Terminal() {
		return
	}
	g.started = true
	g.startedAt = g.clock.Now()

	g.clock.Schedule(schedule.Task{
		Name:     taskDeadline,
		Priority: schedule.PriorityDeadline,
		Delay:    g.Level.TimeLimit(),
		Pausable: true,
		Run: func() {
			g.State.End(state.FailureTimeout)
		},
	})

	b := g.State.Board
	if g.Level.ProgressiveVirus && hazard.Present(b, board.Virus) {
		g.clock.Schedule(schedule.Task{
			Name:     taskInfection,
			Priority: schedule.PriorityInfection,
			Delay:    g.Rules.InfectionPeriod,
			Period:   g.Rules.InfectionPeriod,
			Pausable: true,
			Run:      g.infectionTick,
		})
	}
	if g.Level.ProgressiveBomb && hazard.Present(b, board.Bomb) {
		g.clock.Schedule(schedule.Task{
			Name:     taskCombustion,
			Priority: schedule.PriorityCombustion,
			Delay:    g.Rules.CombustionPeriod,
			Period:   g.Rules.CombustionPeriod,
			Pausable: true,
			Run:      g.combustionTick,
		})
	}
	if g.Level.HazardMode {
		g.armStall()
	}
	g.logger.Debug("started", "pairs", b.Pairs, "timeLimit", g.Level.TimeLimit())
}

func (g *Game) armStall() {
	g.clock.Schedule(schedule.Task{
		Name:     taskStall,
		Priority: schedule.PriorityStall,
		Delay:    g.Rules.StallWindow,
		Period:   g.Rules.StallWindow,
		Pausable: true,
		Run:      g.stallTick,
	})
}

func (g *Game) infectionTick() {
	if g.State.Terminal() {
		return
	}
	if !hazard.Present(g.State.Board, board.Virus) {
		g.clock.Cancel(taskInfection)
		return
	}
	converted := hazard.Infect(g.State.Board, g.rng, g.State.Pending())
	g.logger.Debug("infection", "converted", converted)
}

func (g *Game) combustionTick() {
	if g.State.Terminal() {
		return
	}
	if !hazard.Present(g.State.Board, board.Bomb) {
		g.clock.Cancel(taskCombustion)
		return
	}
	converted := hazard.Combust(g.State.Board, g.rng, g.State.Pending())
	g.logger.Debug("combustion", "ignited", converted)
}

// stallTick fires when no adjacent pair was matched for a whole window.
func (g *Game) stallTick() {
	if g.State.Terminal() {
		return
	}
	b := g.State.Board
	switch {
	case hazard.Present(b, board.Bomb):
		g.logger.Debug("stall", "effect", "explosion")
		g.State.End(state.FailureBombExplosion)
	case hazard.Present(b, board.Virus):
		converted := hazard.Infect(b, g.rng, g.State.Pending())
		g.logger.Debug("stall", "effect", "infection", "converted", converted)
	}
}

// teardownHazards stops hazard clocks whose hazard is gone from the board.
func (g *Game) teardownHazards() {
	b := g.State.Board
	if !hazard.Present(b, board.Virus) && g.clock.Cancel(taskInfection) {
		g.logger.Debug("infection cleared")
	}
	if !hazard.Present(b, board.Bomb) && g.clock.Cancel(taskCombustion) {
		g.logger.Debug("combustion cleared")
	}
}

// finish records the outcome and stops every clock. It runs once, from the
// transition into the ended phase.
func (g *Game) finish() {
	if g.outcome != nil {
		return
	}
	if left, ok := g.clock.Remaining(taskDeadline); ok {
		g.timeLeft = left
	} else if g.State.FailureReason == state.FailureTimeout {
		g.timeLeft = 0
	}
	g.clock.CancelAll()
	g.clock.Thaw()

	var used time.Duration
	if g.started {
		used = g.clock.Now() - g.startedAt
	}

	o := scoring.Outcome{
		Result:     scoring.ResultLoss,
		MovesUsed:  g.State.Moves,
		Mistakes:   g.State.Mistakes,
		TimeUsedMs: used.Milliseconds(),
	}
	if g.State.Win {
		o.Result = scoring.ResultWin
		o.Stars = scoring.CalculateStars(g.State.Board.Pairs, o.MovesUsed, o.TimeUsedMs)
	} else {
		o.FailureReason = g.State.FailureReason
	}
	g.outcome = &o
	g.logger.Info("attempt finished", "result", o.Result, "moves", o.MovesUsed, "timeMs", o.TimeUsedMs, "stars", o.Stars, "reason", o.FailureReason)
}

// applyMutation runs fn under the lock, flushes tasks that fell due because
// of it, then hands a fresh outcome to the listeners outside the lock.
func (g *Game) applyMutation(fn func()) {
	g.mu.Lock()
	fn()
	g.clock.Advance(0)

	var emit []func(scoring.Outcome)
	var o scoring.Outcome
	if g.outcome != nil && !g.emitted {
		g.emitted = true
		emit = g.listeners
		o = *g.outcome
	}
	g.mu.Unlock()

	for _, l := range emit {
		l(o)
	}
}

// HandleTick advances the attempt's clock by d.
func (g *Game) HandleTick(d time.Duration) {
	g.applyMutation(func() {
		if g.outcome != nil {
			return
		}
		g.clock.Advance(d)
	})
}

// HandleFlip processes a flip request and reports whether it was accepted.
func (g *Game) HandleFlip(id int) bool {
	var ok bool
	g.applyMutation(func() {
		ok = g.State.Flip(id)
	})
	return ok
}

// UseFreeze pauses the countdown and every hazard clock. It works once per
// attempt, while cards can be flipped.
func (g *Game) UseFreeze() bool {
	var ok bool
	g.applyMutation(func() {
		if g.freezeUsed || !g.started || g.State.Terminal() || g.Rules.FreezeDuration <= 0 {
			return
		}
		g.freezeUsed = true
		g.clock.Freeze()
		g.clock.Schedule(schedule.Task{
			Name:     taskThaw,
			Priority: schedule.PriorityFreeze,
			Delay:    g.Rules.FreezeDuration,
			Run:      g.clock.Thaw,
		})
		g.logger.Debug("freeze", "duration", g.Rules.FreezeDuration)
		ok = true
	})
	return ok
}

// UseReveal clears a share of the remaining pairs. A percent of zero uses the
// configured default. It works once per attempt, between turns.
func (g *Game) UseReveal(percent int) int {
	if percent <= 0 || percent > 100 {
		percent = g.Rules.RevealPercent
	}
	var n int
	g.applyMutation(func() {
		if g.revealUsed || g.State.Phase() != state.PhaseIdle {
			return
		}
		g.revealUsed = true
		n = g.State.RevealPairs(percent)
		g.teardownHazards()
		g.logger.Debug("reveal", "percent", percent, "matched", n)
	})
	return n
}

// Abandon ends the attempt as an explicit exit.
func (g *Game) Abandon() bool {
	var ok bool
	g.applyMutation(func() {
		ok = g.State.End(state.FailureAbandoned)
	})
	return ok
}

// OnOutcome registers fn to receive the outcome. It is called exactly once,
// immediately if the attempt has already ended.
func (g *Game) OnOutcome(fn func(scoring.Outcome)) {
	g.mu.Lock()
	if g.emitted {
		o := *g.outcome
		g.mu.Unlock()
		fn(o)
		return
	}
	g.listeners = append(g.listeners, fn)
	g.mu.Unlock()
}

// Outcome returns the outcome once the attempt has ended.
func (g *Game) Outcome() (scoring.Outcome, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.outcome == nil {
		return scoring.Outcome{}, false
	}
	return *g.outcome, true
}

func (g *Game) Done() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcome != nil
}

// TimeRemaining is the countdown left. It stays at the full limit during the
// preview.
func (g *Game) TimeRemaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timeRemaining()
}

func (g *Game) timeRemaining() time.Duration {
	if left, ok := g.clock.Remaining(taskDeadline); ok {
		return left
	}
	return g.timeLeft
}

// listener adapts the match engine's events to the attempt's clocks.
type listener Game

func (l *listener) OnMatch(ev state.MatchEvent) {
	g := (*Game)(l)
	g.logger.Debug("match", "first", ev.First, "second", ev.Second, "adjacent", ev.Adjacent, "destroyed", ev.Destroyed, "cluster", ev.ClusterBreak)
	if ev.Adjacent && g.clock.Active(taskStall) {
		g.armStall()
	}
	g.teardownHazards()
}

func (l *listener) OnMismatch(ev state.MismatchEvent) {
	g := (*Game)(l)
	g.logger.Debug("mismatch", "first", ev.First, "second", ev.Second, "penalty", ev.Penalty, "bomb", ev.Bomb)
	if ev.Penalty > 0 {
		g.clock.Shorten(taskDeadline, ev.Penalty)
	}
}

func (l *listener) OnEnded() {
	(*Game)(l).finish()
}

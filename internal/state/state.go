package state

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/looplab/fsm"

	"twinclash/internal/board"
	"twinclash/internal/config"
	"twinclash/internal/schedule"
)

// Phases of the match engine.
const (
	PhaseStart        = "start"
	PhasePreview      = "preview"
	PhaseIdle         = "idle"
	PhaseOneFlipped   = "oneFlipped"
	PhaseComparing    = "comparing"
	PhaseGotMatch     = "gotMatch"
	PhaseNoMatch      = "noMatch"
	PhaseFlippingBack = "flippingBack"
	PhaseEnded        = "ended"
)

// Failure reasons reported in the outcome.
const (
	FailureTimeout       = "timeout"
	FailureBombExplosion = "bomb-explosion"
	FailureAbandoned     = "abandoned"
)

// Tasks owned by the match engine.
const (
	TaskFlipBack = "flipBack"
	TaskHint     = "hintClear"
)

// MatchEvent describes a resolved match. Indices are board positions.
type MatchEvent struct {
	First        int
	Second       int
	Adjacent     bool
	Destroyed    []int
	ClusterBreak bool
}

// MismatchEvent describes a resolved mismatch.
type MismatchEvent struct {
	First     int
	Second    int
	Penalty   time.Duration
	Bomb      bool
	Scrambled []int
}

// Listener receives engine events. Callbacks run inside FSM transitions and
// must not fire further engine events.
type Listener interface {
	OnMatch(MatchEvent)
	OnMismatch(MismatchEvent)
	OnEnded()
}

type State struct {
	Board    *board.Board
	Rules    config.Rules
	FSM      *fsm.FSM
	Clock    *schedule.Scheduler
	Rand     *rand.Rand
	Listener Listener

	Moves              int
	Mistakes           int
	MatchedPairs       int
	ConsecutiveMisses  int
	Streak             int
	DestroyedObstacles int
	Hint               []int
	Win                bool
	Loss               bool
	FailureReason      string

	pending  []int
	selected int
}

func NewState(b *board.Board, rules config.Rules, clock *schedule.Scheduler, rng *rand.Rand) *State {
	s := &State{
		Board:    b,
		Rules:    rules,
		Clock:    clock,
		Rand:     rng,
		selected: -1,
	}

	s.FSM = fsm.NewFSM(
		PhaseStart,
		getStateTransitions(),
		getStateCallbacks(s),
	)

	return s
}

// Init leaves the start phase. With preview the board stays face-up and
// flips are ignored until Begin.
func (s *State) Init(preview bool) {
	if preview {
		_ = s.FSM.Event(context.Background(), "initGame")
		return
	}
	_ = s.FSM.Event(context.Background(), "begin")
}

// Begin ends the preview phase.
func (s *State) Begin() bool {
	return s.FSM.Event(context.Background(), "begin") == nil
}

// Flip requests a flip of the card with the given id. Requests that are not
// legal in the current phase, or target a non-playable card, are ignored.
func (s *State) Flip(id int) bool {
	idx := s.Board.IndexOf(id)
	if idx < 0 {
		return false
	}
	return s.FSM.Event(context.Background(), "flip", idx) == nil
}

// End finishes the attempt as a loss. It is a no-op once the attempt has ended.
func (s *State) End(reason string) bool {
	if s.Terminal() {
		return false
	}
	s.Loss = true
	s.FailureReason = reason
	_ = s.FSM.Event(context.Background(), "end")
	return true
}

func (s *State) Phase() string {
	return s.FSM.Current()
}

func (s *State) Terminal() bool {
	return s.Win || s.Loss || s.FSM.Is(PhaseEnded)
}

// Hinted returns the indices of the cards currently flagged by the hint.
func (s *State) Hinted() []int {
	return slices.Clone(s.Hint)
}

// Pending returns the indices of face-up cards awaiting resolution.
func (s *State) Pending() []int {
	return slices.Clone(s.pending)
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "initGame", Src: []string{PhaseStart}, Dst: PhasePreview},
		{Name: "begin", Src: []string{PhaseStart, PhasePreview}, Dst: PhaseIdle},

		// Flipping
		{Name: "flip", Src: []string{PhaseIdle}, Dst: PhaseOneFlipped},
		{Name: "flip", Src: []string{PhaseOneFlipped}, Dst: PhaseComparing},

		// Resolution
		{Name: "match", Src: []string{PhaseComparing}, Dst: PhaseGotMatch},
		{Name: "mismatch", Src: []string{PhaseComparing}, Dst: PhaseNoMatch},
		{Name: "settle", Src: []string{PhaseGotMatch}, Dst: PhaseIdle},
		{Name: "await", Src: []string{PhaseNoMatch}, Dst: PhaseFlippingBack},
		{Name: "scramble", Src: []string{PhaseNoMatch}, Dst: PhaseIdle},
		{Name: "flipBack", Src: []string{PhaseFlippingBack}, Dst: PhaseIdle},

		// Terminal
		{Name: "complete", Src: []string{PhaseGotMatch, PhaseIdle}, Dst: PhaseEnded},
		{Name: "end", Src: []string{PhaseStart, PhasePreview, PhaseIdle, PhaseOneFlipped, PhaseFlippingBack}, Dst: PhaseEnded},
	}
}

func getStateCallbacks(s *State) map[string]fsm.Callback {
	return fsm.Callbacks{
		"before_flip": func(ctx context.Context, e *fsm.Event) {
			idx, ok := e.Args[0].(int)
			if !ok || !s.Board.Playable(idx) {
				e.Cancel()
				return
			}
			s.selected = idx
		},
		"enter_oneFlipped": func(ctx context.Context, e *fsm.Event) {
			s.Board.Cards[s.selected].Flipped = true
			s.pending = []int{s.selected}
		},
		"enter_comparing": func(ctx context.Context, e *fsm.Event) {
			s.Board.Cards[s.selected].Flipped = true
			s.pending = append(s.pending, s.selected)
			s.Moves++

			if s.pairMatches(s.pending[0], s.pending[1]) {
				e.FSM.Event(ctx, "match")
				return
			}
			e.FSM.Event(ctx, "mismatch")
		},
		"enter_gotMatch": func(ctx context.Context, e *fsm.Event) {
			ev := s.resolveMatch()
			if s.Listener != nil {
				s.Listener.OnMatch(ev)
			}

			if s.MatchedPairs >= s.Board.Pairs {
				s.Win = true
				e.FSM.Event(ctx, "complete")
				return
			}
			e.FSM.Event(ctx, "settle")
		},
		"enter_noMatch": func(ctx context.Context, e *fsm.Event) {
			ev := s.resolveMismatch()
			if s.Listener != nil {
				s.Listener.OnMismatch(ev)
			}

			if ev.Bomb {
				// Punished cards go face-down straight away; there is no delay.
				s.faceDownPending()
				e.FSM.Event(ctx, "scramble")
				return
			}

			s.Clock.Schedule(schedule.Task{
				Name:     TaskFlipBack,
				Priority: schedule.PriorityFlipBack,
				Delay:    s.Rules.FlipBackDelay,
				Run: func() {
					_ = s.FSM.Event(context.Background(), "flipBack")
				},
			})
			e.FSM.Event(ctx, "await")
		},
		"leave_flippingBack": func(ctx context.Context, e *fsm.Event) {
			s.faceDownPending()
		},
		"enter_ended": func(ctx context.Context, e *fsm.Event) {
			s.onEnded()
		},
	}
}

func (s *State) onEnded() {
	s.Clock.Cancel(TaskFlipBack)
	s.Clock.Cancel(TaskHint)
	s.Hint = nil
	if s.Listener != nil {
		s.Listener.OnEnded()
	}
}

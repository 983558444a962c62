package game

import (
	"twinclash/internal/board"
	"twinclash/internal/scoring"
	"twinclash/internal/state"
)

// Snapshot is a render-safe copy of an attempt.
type Snapshot struct {
	LevelID            int              `json:"levelId"`
	Level              string           `json:"level"`
	Phase              string           `json:"phase"`
	Cols               int              `json:"cols"`
	Rows               int              `json:"rows"`
	Cards              []board.CardView `json:"cards"`
	Pairs              int              `json:"pairs"`
	MatchedPairs       int              `json:"matchedPairs"`
	Moves              int              `json:"moves"`
	Mistakes           int              `json:"mistakes"`
	Streak             int              `json:"streak"`
	DestroyedObstacles int              `json:"destroyedObstacles"`
	TimeRemainingMs    int64            `json:"timeRemainingMs"`
	PreviewRemainingMs int64            `json:"previewRemainingMs,omitempty"`
	Frozen             bool             `json:"frozen"`
	FreezeRemainingMs  int64            `json:"freezeRemainingMs,omitempty"`
	FreezeUsed         bool             `json:"freezeUsed"`
	RevealUsed         bool             `json:"revealUsed"`
	Targets            scoring.Targets  `json:"targets"`
	Outcome            *scoring.Outcome `json:"outcome,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.State
	b := s.Board
	phase := s.Phase()

	snap := Snapshot{
		LevelID:            g.Level.ID,
		Level:              g.Level.Name(),
		Phase:              phase,
		Cols:               b.Cols,
		Rows:               b.Rows,
		Cards:              board.BuildCardViews(b, s.Hinted(), phase == state.PhasePreview),
		Pairs:              b.Pairs,
		MatchedPairs:       s.MatchedPairs,
		Moves:              s.Moves,
		Mistakes:           s.Mistakes,
		Streak:             s.Streak,
		DestroyedObstacles: s.DestroyedObstacles,
		TimeRemainingMs:    g.timeRemaining().Milliseconds(),
		Frozen:             g.clock.Frozen(),
		FreezeUsed:         g.freezeUsed,
		RevealUsed:         g.revealUsed,
		Targets:            scoring.StarTargets(b.Pairs),
	}
	if left, ok := g.clock.Remaining(taskPreview); ok {
		snap.PreviewRemainingMs = left.Milliseconds()
	}
	if left, ok := g.clock.Remaining(taskThaw); ok {
		snap.FreezeRemainingMs = left.Milliseconds()
	}
	if g.outcome != nil {
		o := *g.outcome
		snap.Outcome = &o
	}
	return snap
}

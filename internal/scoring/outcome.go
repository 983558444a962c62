package scoring

// Results of an attempt.
const (
	ResultWin  = "win"
	ResultLoss = "loss"
)

// Outcome is emitted once per attempt when it reaches a terminal state.
type Outcome struct {
	Result        string `json:"result"`
	MovesUsed     int    `json:"movesUsed"`
	Mistakes      int    `json:"mistakes"`
	TimeUsedMs    int64  `json:"timeUsedMs"`
	Stars         int    `json:"stars"`
	FailureReason string `json:"failureReason,omitempty"`
}

func (o Outcome) Won() bool {
	return o.Result == ResultWin
}

// Targets are the thresholds a completed board is rated against.
type Targets struct {
	Moves3 int   `json:"moves3"`
	Moves2 int   `json:"moves2"`
	TimeMs int64 `json:"timeMs"`
}

// StarTargets derives the rating thresholds from the pair count.
func StarTargets(pairs int) Targets {
	return Targets{
		Moves3: pairs + pairs*3/10,
		Moves2: pairs + pairs*6/10,
		TimeMs: 1500 * int64(pairs),
	}
}

// CalculateStars rates a completed board: 1 for finishing, 2 within the
// two-star move target, 3 within the three-star move and time targets.
func CalculateStars(pairs, movesUsed int, timeUsedMs int64) int {
	t := StarTargets(pairs)
	switch {
	case movesUsed <= t.Moves3 && timeUsedMs <= t.TimeMs:
		return 3
	case movesUsed <= t.Moves2:
		return 2
	}
	return 1
}

// Better orders outcomes best-first: more stars, then wins, then fewer moves,
// then less time.
func Better(a, b Outcome) bool {
	if a.Stars != b.Stars {
		return a.Stars > b.Stars
	}
	if a.Won() != b.Won() {
		return a.Won()
	}
	if a.MovesUsed != b.MovesUsed {
		return a.MovesUsed < b.MovesUsed
	}
	return a.TimeUsedMs < b.TimeUsedMs
}

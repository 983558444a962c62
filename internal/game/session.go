package game

import (
	"errors"
	"fmt"

	"twinclash/internal/level"
	"twinclash/internal/scoring"
)

var ErrCampaignOver = errors.New("no more levels")

// Campaign plays an ordered list of levels back to back. A win advances to
// the next level; a loss stops the run until Retry.
type Campaign struct {
	Levels       []level.Descriptor
	CurrentIndex int
	CurrentGame  *Game
	Scoring      *scoring.Scoring
	Options      Options
	Storage      scoring.OutcomeStorage
	// Seed is applied to levels that carry none, so a whole run can be
	// replayed.
	Seed string

	TotalStars int
	Outcomes   []scoring.Outcome

	recorded bool
}

func NewCampaign(levels []level.Descriptor, opts Options, storage scoring.OutcomeStorage, seed string) (*Campaign, error) {
	if len(levels) == 0 {
		return nil, ErrCampaignOver
	}
	c := &Campaign{
		Levels:  levels,
		Options: opts,
		Storage: storage,
		Seed:    seed,
	}

	if err := c.NextGame(); err != nil {
		return nil, err
	}
	return c, nil
}

// Current is the descriptor being played, with the campaign seed applied.
func (c *Campaign) Current() level.Descriptor {
	d := c.Levels[c.CurrentIndex]
	if d.Seed == "" && c.Seed != "" {
		d.Seed = fmt.Sprintf("%s#%d", c.Seed, d.ID)
	}
	return d
}

// NextGame starts a fresh attempt at the current level.
func (c *Campaign) NextGame() error {
	if c.IsFinished() {
		return ErrCampaignOver
	}

	d := c.Current()
	if c.Scoring == nil || c.Scoring.LevelID != d.ID {
		sc, err := scoring.InitScoring(d.ID, d.Name(), c.Storage)
		if err != nil {
			return err
		}
		c.Scoring = sc
	}

	g, err := NewGame(d, c.Options)
	if err != nil {
		return fmt.Errorf("level %s: %w", d.Name(), err)
	}
	g.Init()

	c.CurrentGame = g
	c.recorded = false
	return nil
}

// Retry restarts the current level. An unfinished attempt is abandoned and
// recorded as such.
func (c *Campaign) Retry() error {
	if c.CurrentGame != nil {
		idx := c.CurrentIndex
		c.CurrentGame.Abandon()
		if err := c.Update(); err != nil {
			return err
		}
		if c.CurrentIndex != idx {
			// The attempt had already been won; Update moved on.
			if c.IsFinished() {
				return ErrCampaignOver
			}
			return nil
		}
	}
	return c.NextGame()
}

// Update records a finished attempt and advances past a win.
func (c *Campaign) Update() error {
	if c.CurrentGame == nil || c.recorded {
		return nil
	}
	o, ok := c.CurrentGame.Outcome()
	if !ok {
		return nil
	}
	c.recorded = true
	c.Outcomes = append(c.Outcomes, o)

	c.Scoring.Record(o, c.CurrentGame.Level.Seed)
	if err := c.Scoring.SaveEntries(); err != nil {
		return err
	}

	if o.Won() {
		c.TotalStars += o.Stars
		c.CurrentIndex++
		if !c.IsFinished() {
			c.CurrentGame = nil
			return c.NextGame()
		}
	}
	return nil
}

func (c *Campaign) IsFinished() bool {
	return c.CurrentIndex >= len(c.Levels)
}

func (c *Campaign) IsSessionLoss() bool {
	if c.CurrentGame == nil {
		return false
	}
	o, ok := c.CurrentGame.Outcome()
	return ok && !o.Won()
}

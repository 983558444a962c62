// Package level holds level descriptors, the campaign catalog and seeding helpers.
package level

import (
	"errors"
	"fmt"
	"time"

	"twinclash/internal/board"
)

// ErrInvalidDescriptor is returned for descriptors the generator cannot build.
var ErrInvalidDescriptor = errors.New("invalid level descriptor")

// Obstacles holds how many cards of each type a level asks for.
type Obstacles struct {
	Ice   int `yaml:"ice,omitempty" json:"ice,omitempty"`
	Stone int `yaml:"stone,omitempty" json:"stone,omitempty"`
	Iron  int `yaml:"iron,omitempty" json:"iron,omitempty"`
	Fire  int `yaml:"fire,omitempty" json:"fire,omitempty"`
	Bomb  int `yaml:"bomb,omitempty" json:"bomb,omitempty"`
	Virus int `yaml:"virus,omitempty" json:"virus,omitempty"`
}

// Count returns the requested amount for one obstacle type.
func (o Obstacles) Count(t board.Obstacle) int {
	switch t {
	case board.Ice:
		return o.Ice
	case board.Stone:
		return o.Stone
	case board.Iron:
		return o.Iron
	case board.Fire:
		return o.Fire
	case board.Bomb:
		return o.Bomb
	case board.Virus:
		return o.Virus
	}
	return 0
}

func (o Obstacles) Total() int {
	return o.Ice + o.Stone + o.Iron + o.Fire + o.Bomb + o.Virus
}

// Descriptor is the input contract for one attempt.
type Descriptor struct {
	ID               int       `yaml:"id" json:"id,omitempty"`
	World            int       `yaml:"world,omitempty" json:"world,omitempty"`
	Stage            int       `yaml:"stage,omitempty" json:"stage,omitempty"`
	Pairs            int       `yaml:"pairs" json:"pairs"`
	TimeLimitSeconds int       `yaml:"timeLimitSeconds" json:"timeLimitSeconds"`
	Theme            string    `yaml:"theme,omitempty" json:"theme,omitempty"`
	Reward           int       `yaml:"reward,omitempty" json:"reward,omitempty"`
	Obstacles        Obstacles `yaml:"obstacles,omitempty" json:"obstacles"`
	WildcardPairs    int       `yaml:"wildcardPairs,omitempty" json:"wildcardPairs,omitempty"`
	HazardMode       bool      `yaml:"hazardMode,omitempty" json:"hazardMode,omitempty"`
	ProgressiveVirus bool      `yaml:"progressiveVirus,omitempty" json:"progressiveVirus,omitempty"`
	ProgressiveBomb  bool      `yaml:"progressiveBomb,omitempty" json:"progressiveBomb,omitempty"`
	Seed             string    `yaml:"seed,omitempty" json:"seed,omitempty"`
	PreviewSeconds   int       `yaml:"previewSeconds,omitempty" json:"previewSeconds,omitempty"`
}

// Validate rejects descriptors that cannot produce a playable board.
func (d Descriptor) Validate() error {
	switch {
	case d.Pairs <= 0:
		return fmt.Errorf("%w: pairs must be positive, got %d", ErrInvalidDescriptor, d.Pairs)
	case d.TimeLimitSeconds <= 0:
		return fmt.Errorf("%w: time limit must be positive, got %d", ErrInvalidDescriptor, d.TimeLimitSeconds)
	case d.WildcardPairs < 0 || d.WildcardPairs > d.Pairs:
		return fmt.Errorf("%w: wildcard pairs %d out of range", ErrInvalidDescriptor, d.WildcardPairs)
	case d.PreviewSeconds < 0:
		return fmt.Errorf("%w: negative preview", ErrInvalidDescriptor)
	}
	for _, t := range board.PlacementOrder {
		if d.Obstacles.Count(t) < 0 {
			return fmt.Errorf("%w: negative %s count", ErrInvalidDescriptor, t)
		}
	}
	return nil
}

func (d Descriptor) TimeLimit() time.Duration {
	return time.Duration(d.TimeLimitSeconds) * time.Second
}

func (d Descriptor) Preview() time.Duration {
	return time.Duration(d.PreviewSeconds) * time.Second
}

// Name is the short label shown in menus and logs.
func (d Descriptor) Name() string {
	if d.World > 0 {
		return fmt.Sprintf("%d-%d", d.World, d.Stage)
	}
	if d.ID > 0 {
		return fmt.Sprintf("#%d", d.ID)
	}
	return "custom"
}

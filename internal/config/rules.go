package config

import "time"

// Rules are the tunable constants of the match engine and hazards.
type Rules struct {
	FlipBackDelay     time.Duration `yaml:"flipBackDelay" json:"flipBackDelay"`
	HintAfterMisses   int           `yaml:"hintAfterMisses" json:"hintAfterMisses"`
	HintDuration      time.Duration `yaml:"hintDuration" json:"hintDuration"`
	InfectionPeriod   time.Duration `yaml:"infectionPeriod" json:"infectionPeriod"`
	CombustionPeriod  time.Duration `yaml:"combustionPeriod" json:"combustionPeriod"`
	StallWindow       time.Duration `yaml:"stallWindow" json:"stallWindow"`
	FirePenalty       time.Duration `yaml:"firePenalty" json:"firePenalty"`
	VirusPenalty      time.Duration `yaml:"virusPenalty" json:"virusPenalty"`
	BombScrambleMax   int           `yaml:"bombScrambleMax" json:"bombScrambleMax"`
	ComboThreshold    int           `yaml:"comboThreshold" json:"comboThreshold"`
	FreezeDuration    time.Duration `yaml:"freezeDuration" json:"freezeDuration"`
	RevealPercent     int           `yaml:"revealPercent" json:"revealPercent"`
	ProtectedFraction float64       `yaml:"protectedFraction" json:"protectedFraction"`
	MinProtectedPairs int           `yaml:"minProtectedPairs" json:"minProtectedPairs"`
}

// DefaultRules returns the hardcoded rule set used when no YAML is available.
func DefaultRules() Rules {
	return Rules{
		FlipBackDelay:     400 * time.Millisecond,
		HintAfterMisses:   4,
		HintDuration:      3 * time.Second,
		InfectionPeriod:   20 * time.Second,
		CombustionPeriod:  30 * time.Second,
		StallWindow:       15 * time.Second,
		FirePenalty:       10 * time.Second,
		VirusPenalty:      5 * time.Second,
		BombScrambleMax:   6,
		ComboThreshold:    6,
		FreezeDuration:    10 * time.Second,
		RevealPercent:     20,
		ProtectedFraction: 0.35,
		MinProtectedPairs: 2,
	}
}

// normalize replaces non-positive periods with defaults so that periodic
// tasks can never be armed with a zero interval.
func (r *Rules) normalize() {
	def := DefaultRules()
	if r.InfectionPeriod <= 0 {
		r.InfectionPeriod = def.InfectionPeriod
	}
	if r.CombustionPeriod <= 0 {
		r.CombustionPeriod = def.CombustionPeriod
	}
	if r.StallWindow <= 0 {
		r.StallWindow = def.StallWindow
	}
	if r.FlipBackDelay < 0 {
		r.FlipBackDelay = 0
	}
	if r.BombScrambleMax < 2 {
		r.BombScrambleMax = 2
	}
	if r.RevealPercent <= 0 || r.RevealPercent > 100 {
		r.RevealPercent = def.RevealPercent
	}
}

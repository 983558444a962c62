package http

import "twinclash/internal/level"

// CreateAttemptRequest is the payload for POST /attempts. Either LevelID or
// Level is set; Daily overrides Seed with today's date.
type CreateAttemptRequest struct {
	LevelID int               `json:"levelId"`
	Level   *level.Descriptor `json:"level"`
	Seed    string            `json:"seed"`
	Daily   bool              `json:"daily"`
}

// FlipRequest is the payload for POST /attempts/:id/flip.
type FlipRequest struct {
	CardID *int `json:"cardId"`
}

// RevealRequest is the payload for POST /attempts/:id/reveal.
type RevealRequest struct {
	Percent int `json:"percent"`
}

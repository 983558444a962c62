package live

import (
	"context"
	"time"

	"twinclash/internal/game"
	"twinclash/internal/level"
)

// Attempt is one game hosted by the server.
type Attempt struct {
	ID        string
	Level     level.Descriptor
	Game      *game.Game
	CreatedAt time.Time

	cancel context.CancelFunc
}

// Store keeps the live attempts.
type Store interface {
	GetAttempt(id string) (*Attempt, bool)
	SaveAttempt(a *Attempt)
	DeleteAttempt(id string)
	ListAttempts() []*Attempt
}

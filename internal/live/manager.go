// Package live hosts attempts for network clients. Each attempt's clock is
// driven by its own ticker goroutine and every change is broadcast.
package live

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"twinclash/internal/config"
	"twinclash/internal/game"
	"twinclash/internal/level"
	"twinclash/internal/scoring"
)

var (
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrLevelNotFound   = errors.New("level not found")
)

// Broadcast actions.
const (
	ActionSnapshot = "snapshot"
	ActionTick     = "tick"
	ActionOutcome  = "outcome"
)

// Options configure a Manager. Interval is the wall-clock tick period and
// Step the game time each tick advances; Step defaults to Interval.
type Options struct {
	Catalog  *level.Catalog
	Rules    config.Rules
	Outcomes scoring.OutcomeStorage
	Logger   *log.Logger
	Interval time.Duration
	Step     time.Duration
}

type Manager struct {
	store    Store
	hub      Broadcaster
	catalog  *level.Catalog
	rules    config.Rules
	outcomes scoring.OutcomeStorage
	logger   *log.Logger
	interval time.Duration
	step     time.Duration
}

func NewManager(s Store, opts Options) *Manager {
	m := &Manager{
		store:    s,
		catalog:  opts.Catalog,
		rules:    opts.Rules,
		outcomes: opts.Outcomes,
		logger:   opts.Logger,
		interval: opts.Interval,
		step:     opts.Step,
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.interval <= 0 {
		m.interval = 100 * time.Millisecond
	}
	if m.step <= 0 {
		m.step = m.interval
	}
	return m
}

func (m *Manager) SetHub(hub Broadcaster) {
	m.hub = hub
}

// Catalog is the level list new attempts are created from.
func (m *Manager) Catalog() *level.Catalog {
	return m.catalog
}

func (m *Manager) broadcast(id, action string, data any) {
	if m.hub != nil {
		m.hub.Broadcast(id, action, data)
	}
}

// CreateLevel starts an attempt at a catalog level. An empty seed gives a
// fresh shuffle.
func (m *Manager) CreateLevel(levelID int, seed string) (*Attempt, error) {
	if m.catalog == nil {
		return nil, ErrLevelNotFound
	}
	d, ok := m.catalog.Get(levelID)
	if !ok {
		return nil, ErrLevelNotFound
	}
	if seed != "" {
		d.Seed = seed
	}
	return m.Create(d)
}

// Create starts an attempt at d and its ticker.
func (m *Manager) Create(d level.Descriptor) (*Attempt, error) {
	id := uuid.NewString()
	rules := m.rules
	g, err := game.NewGame(d, game.Options{
		Rules:  &rules,
		Logger: m.logger.With("attempt", id),
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Attempt{
		ID:        id,
		Level:     d,
		Game:      g,
		CreatedAt: time.Now(),
		cancel:    cancel,
	}

	g.OnOutcome(func(o scoring.Outcome) {
		m.finish(a, o)
	})
	g.Init()

	m.store.SaveAttempt(a)
	go m.run(ctx, a)

	m.logger.Info("attempt created", "attempt", id, "level", d.Name(), "seed", d.Seed)
	return a, nil
}

// run drives the attempt's clock until it ends or is deleted.
func (m *Manager) run(ctx context.Context, a *Attempt) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Game.HandleTick(m.step)
			if a.Game.Done() {
				return
			}
			m.broadcast(a.ID, ActionTick, a.Game.Snapshot())
		}
	}
}

func (m *Manager) finish(a *Attempt, o scoring.Outcome) {
	a.cancel()
	m.broadcast(a.ID, ActionOutcome, a.Game.Snapshot())

	if m.outcomes == nil {
		return
	}
	entry := scoring.OutcomeEntry{
		LevelID:   a.Level.ID,
		Title:     a.Level.Name(),
		Seed:      a.Level.Seed,
		Outcome:   o,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := m.outcomes.Append(entry); err != nil {
		m.logger.Warn("cannot save outcome", "attempt", a.ID, "error", err)
	}
}

func (m *Manager) Get(id string) (*Attempt, bool) {
	return m.store.GetAttempt(id)
}

func (m *Manager) Snapshot(id string) (game.Snapshot, error) {
	a, ok := m.store.GetAttempt(id)
	if !ok {
		return game.Snapshot{}, ErrAttemptNotFound
	}
	return a.Game.Snapshot(), nil
}

// act runs fn against the attempt and broadcasts the resulting snapshot.
func (m *Manager) act(id string, fn func(g *game.Game)) (game.Snapshot, error) {
	a, ok := m.store.GetAttempt(id)
	if !ok {
		return game.Snapshot{}, ErrAttemptNotFound
	}
	fn(a.Game)
	snap := a.Game.Snapshot()
	if snap.Outcome == nil {
		m.broadcast(id, ActionSnapshot, snap)
	}
	return snap, nil
}

// Flip forwards a flip request. Illegal flips are ignored, not errors.
func (m *Manager) Flip(id string, cardID int) (game.Snapshot, bool, error) {
	var accepted bool
	snap, err := m.act(id, func(g *game.Game) {
		accepted = g.HandleFlip(cardID)
	})
	return snap, accepted, err
}

func (m *Manager) Freeze(id string) (game.Snapshot, bool, error) {
	var ok bool
	snap, err := m.act(id, func(g *game.Game) {
		ok = g.UseFreeze()
	})
	return snap, ok, err
}

func (m *Manager) Reveal(id string, percent int) (game.Snapshot, int, error) {
	var n int
	snap, err := m.act(id, func(g *game.Game) {
		n = g.UseReveal(percent)
	})
	return snap, n, err
}

// Delete abandons the attempt if it is still running and forgets it.
func (m *Manager) Delete(id string) (game.Snapshot, error) {
	a, ok := m.store.GetAttempt(id)
	if !ok {
		return game.Snapshot{}, ErrAttemptNotFound
	}
	a.Game.Abandon()
	a.cancel()
	m.store.DeleteAttempt(id)
	return a.Game.Snapshot(), nil
}

// Shutdown abandons every running attempt.
func (m *Manager) Shutdown() {
	for _, a := range m.store.ListAttempts() {
		a.Game.Abandon()
		a.cancel()
	}
}

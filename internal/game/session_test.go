package game

import (
	"errors"
	"testing"

	"twinclash/internal/level"
	"twinclash/internal/scoring"
)

// MockStorage implements scoring.OutcomeStorage for testing
type MockStorage struct {
	Entries []scoring.OutcomeEntry
}

func (m *MockStorage) LoadAll() ([]scoring.OutcomeEntry, error) {
	return m.Entries, nil
}

func (m *MockStorage) Append(e scoring.OutcomeEntry) error {
	m.Entries = append(m.Entries, e)
	return nil
}

func campaignLevels() []level.Descriptor {
	return []level.Descriptor{
		{ID: 1, World: 1, Stage: 1, Pairs: 3, TimeLimitSeconds: 30},
		{ID: 2, World: 1, Stage: 2, Pairs: 4, TimeLimitSeconds: 30, Obstacles: level.Obstacles{Ice: 2}},
	}
}

func TestCampaign_Init(t *testing.T) {
	store := &MockStorage{}
	c, err := NewCampaign(campaignLevels(), Options{}, store, "run")
	if err != nil {
		t.Fatalf("NewCampaign failed: %v", err)
	}
	if c.CurrentGame == nil {
		t.Fatal("CurrentGame should be initialized")
	}
	if c.CurrentGame.Level.ID != 1 {
		t.Errorf("First game should be level 1, got %d", c.CurrentGame.Level.ID)
	}
	if c.CurrentGame.Level.Seed != "run#1" {
		t.Errorf("Campaign seed should be applied, got %q", c.CurrentGame.Level.Seed)
	}
	if c.Scoring.Title != "1-1" {
		t.Errorf("Unexpected scoring title %q", c.Scoring.Title)
	}
}

func TestCampaign_Empty(t *testing.T) {
	if _, err := NewCampaign(nil, Options{}, &MockStorage{}, ""); !errors.Is(err, ErrCampaignOver) {
		t.Errorf("Expected ErrCampaignOver, got %v", err)
	}
}

func TestCampaign_Progression(t *testing.T) {
	store := &MockStorage{}
	c, err := NewCampaign(campaignLevels(), Options{}, store, "")
	if err != nil {
		t.Fatalf("NewCampaign failed: %v", err)
	}

	playPerfect(t, c.CurrentGame)
	if err := c.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if c.CurrentIndex != 1 || c.CurrentGame.Level.ID != 2 {
		t.Fatalf("Expected to move to level 2, index %d", c.CurrentIndex)
	}
	if c.TotalStars != 3 {
		t.Errorf("Expected 3 stars, got %d", c.TotalStars)
	}

	playPerfect(t, c.CurrentGame)
	if err := c.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !c.IsFinished() {
		t.Error("Campaign should be finished")
	}
	if c.IsSessionLoss() {
		t.Error("A finished campaign is not a loss")
	}
	if len(store.Entries) != 2 {
		t.Errorf("Expected 2 stored outcomes, got %d", len(store.Entries))
	}
	if err := c.NextGame(); !errors.Is(err, ErrCampaignOver) {
		t.Errorf("Expected ErrCampaignOver, got %v", err)
	}
}

func TestCampaign_LossAndRetry(t *testing.T) {
	store := &MockStorage{}
	c, err := NewCampaign(campaignLevels(), Options{}, store, "")
	if err != nil {
		t.Fatalf("NewCampaign failed: %v", err)
	}

	c.CurrentGame.HandleTick(c.CurrentGame.Level.TimeLimit())
	if err := c.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !c.IsSessionLoss() {
		t.Fatal("Expected a loss after the deadline")
	}
	if c.CurrentIndex != 0 {
		t.Errorf("A loss should not advance, index %d", c.CurrentIndex)
	}

	// Updating twice must not record the attempt twice.
	if err := c.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(store.Entries) != 1 {
		t.Fatalf("Expected 1 stored outcome, got %d", len(store.Entries))
	}

	if err := c.Retry(); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if c.IsSessionLoss() || c.CurrentGame.Done() {
		t.Error("Retry should start a fresh attempt")
	}

	// Retrying an unfinished attempt records it as abandoned.
	if err := c.Retry(); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if len(store.Entries) != 2 || store.Entries[1].FailureReason != "abandoned" {
		t.Errorf("Expected an abandoned entry, got %+v", store.Entries)
	}
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"twinclash/internal/live"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	var _ live.Store = s

	_, ok := s.GetAttempt("a")
	assert.False(t, ok)

	s.SaveAttempt(&live.Attempt{ID: "a"})
	s.SaveAttempt(&live.Attempt{ID: "b"})
	got, ok := s.GetAttempt("a")
	assert.True(t, ok)
	assert.Equal(t, "a", got.ID)
	assert.Len(t, s.ListAttempts(), 2)

	s.DeleteAttempt("a")
	_, ok = s.GetAttempt("a")
	assert.False(t, ok)
	assert.Len(t, s.ListAttempts(), 1)
}

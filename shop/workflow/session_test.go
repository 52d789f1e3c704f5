package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessions(t *testing.T) {
	s := NewSessions()

	_, ok := s.Pending(42)
	assert.False(t, ok)

	s.Begin(42, "order-1")
	id, ok := s.Pending(42)
	assert.True(t, ok)
	assert.Equal(t, "order-1", id)

	// a second order repoints the session
	s.Begin(42, "order-2")
	id, _ = s.Pending(42)
	assert.Equal(t, "order-2", id)

	s.Clear(42)
	_, ok = s.Pending(42)
	assert.False(t, ok)
}

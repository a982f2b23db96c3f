package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamMirrorsAndRemembers(t *testing.T) {
	var out strings.Builder
	s := NewStatusStream(&out)

	s.Publish("a\n")
	s.Publish("b\n")

	assert.Equal(t, "a\nb\n", out.String())
	assert.Equal(t, "b\n", s.Last())
}

func TestStreamFansOutToSubscribers(t *testing.T) {
	s := NewStatusStream(nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Publish("line\n")

	select {
	case got := <-ch:
		assert.Equal(t, "line\n", got)
	default:
		t.Fatal("subscriber did not receive the line")
	}
}

func TestStreamDropsForSlowSubscribers(t *testing.T) {
	s := NewStatusStream(nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	for i := 0; i < 100; i++ {
		s.Publish("x\n") // must never block
	}
	require.Equal(t, 16, len(ch), "buffer fills, the rest is dropped")
}

func TestStreamCancelStopsDelivery(t *testing.T) {
	s := NewStatusStream(nil)
	ch, cancel := s.Subscribe()
	cancel()

	s.Publish("late\n")
	assert.Empty(t, ch)
}

package jitter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationBounds(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 100; i++ {
		got := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, got, base)
		assert.LessOrEqual(t, got, base+base/2)
	}
}

func TestDurationWithSeedDeterministic(t *testing.T) {
	base := time.Second
	a := DurationWithSeed(base, DefaultJitter, rand.New(rand.NewSource(1)))
	b := DurationWithSeed(base, DefaultJitter, rand.New(rand.NewSource(1)))
	assert.Equal(t, a, b)
}

func TestExponentialBackoff(t *testing.T) {
	base := time.Second
	max := 10 * time.Second

	for attempt, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second} {
		got := ExponentialBackoff(base, max, attempt, 0)
		assert.Equal(t, want, got, "attempt %d", attempt)
	}

	// после достижения потолка рост прекращается
	assert.Equal(t, max, ExponentialBackoff(base, max, 10, 0))
}

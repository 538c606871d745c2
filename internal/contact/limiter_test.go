package contact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterRefills(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start

	l := NewLimiter(6, 1, time.Hour) // one token every 10s
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	now = start.Add(11 * time.Second)
	assert.True(t, l.Allow("a"))
}

func TestLimiterSweep(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start

	l := NewLimiter(60, 5, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = start.Add(45 * time.Second)
	l.Allow("recent")

	assert.Equal(t, 1, l.Sweep(start.Add(time.Minute)))
	assert.Equal(t, 1, l.Sweep(start.Add(2*time.Minute)))
	assert.Zero(t, l.Sweep(start.Add(3*time.Minute)))
}

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowPerKey(t *testing.T) {
	rl := NewRateLimiter(2)
	fixed := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return fixed }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"))

	fixed = fixed.Add(30 * time.Second)
	assert.True(t, rl.Allow("1.1.1.1"))
}

func TestSweepDropsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(5)
	fixed := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return fixed }

	rl.Allow("a")
	fixed = fixed.Add(visitorTTL + time.Second)
	rl.Allow("b")
	rl.sweep()

	assert.Equal(t, 1, rl.Visitors())
}

package middleware

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSweepDropsExpiredEntries(t *testing.T) {
	s := newMemoryStore()
	now := time.Now()

	for i := 0; i < 3; i++ {
		s.hit(fmt.Sprintf("rl:upload:10.0.0.%d", i), time.Minute, now)
	}
	s.hit("rl:upload:10.0.0.9", time.Hour, now)
	require.Equal(t, 4, s.size())

	assert.Equal(t, 0, s.sweep(now.Add(30*time.Second)))
	assert.Equal(t, 3, s.sweep(now.Add(2*time.Minute)))
	assert.Equal(t, 1, s.size())

	count, _ := s.hit("rl:upload:10.0.0.0", time.Minute, now.Add(2*time.Minute))
	assert.Equal(t, 1, count, "a swept key starts a fresh window")
}

func TestRateLimiterCleanupLoop(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{
		Limit:           5,
		Window:          time.Millisecond,
		CleanupInterval: 5 * time.Millisecond,
	})
	defer l.Close()

	l.store.hit("rl:test:a", time.Millisecond, time.Now())
	l.store.hit("rl:test:b", time.Millisecond, time.Now())
	require.Equal(t, 2, l.store.size())

	assert.Eventually(t, func() bool { return l.store.size() == 0 }, time.Second, 5*time.Millisecond)

	l.Close()
	l.Close()
}

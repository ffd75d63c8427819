package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	log "go.uber.org/zap"

	"github.com/yanet-platform/lazyslot/internal/session"
	"github.com/yanet-platform/lazyslot/pkg/slot"
)

// newSlot creates a session slot that fails the given number of attempts.
func newSlot(failFirst int) *slot.Slot[*session.Session] {
	config := &session.Config{Name: "session", FailFirst: failFirst}
	return slot.New(session.NewFactory(config, log.NewNop()))
}

// TestConsumer_StopsOnShutdown verifies that consumers share one session and
// return by themselves once the slot is shut down.
func TestConsumer_StopsOnShutdown(t *testing.T) {
	s := newSlot(1)

	pool := NewPool()
	go pool.Run(context.Background())

	consumers := make([]*Consumer, 4)
	for i := range consumers {
		consumers[i] = New(i, s, time.Millisecond, log.NewNop())
		pool.Add(consumers[i])
	}

	// Wait until every consumer used the session at least once.
	require.Eventually(t, func() bool {
		for _, c := range consumers {
			if c.Uses() == 0 {
				return false
			}
		}
		return true
	}, 5*time.Second, time.Millisecond)

	shared, ok := s.Get()
	require.True(t, ok)

	s.Shutdown()

	done := make(chan struct{})
	go func() {
		pool.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumers did not stop after shutdown")
	}

	var total uint64
	for _, c := range consumers {
		total += c.Uses()
	}
	assert.Equal(t, shared.Uses(), total)
	assert.True(t, shared.Closed())
}

// TestConsumer_StopsOnCancel verifies that consumers honour context
// cancellation while the slot is still open.
func TestConsumer_StopsOnCancel(t *testing.T) {
	s := newSlot(0)

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool()
	go pool.Run(ctx)

	c := New(0, s, time.Millisecond, log.NewNop())
	pool.Add(c)

	require.Eventually(t, func() bool { return c.Uses() > 0 }, 5*time.Second, time.Millisecond)

	cancel()
	pool.Close()

	assert.Equal(t, slot.StateOpen, s.State())
	// Adding to a closed pool is a no-op.
	pool.Add(New(1, s, time.Millisecond, log.NewNop()))
}

// TestConsumer_CountsFailures verifies that creation failures are retried.
func TestConsumer_CountsFailures(t *testing.T) {
	s := newSlot(2)
	c := New(0, s, time.Millisecond, log.NewNop())

	assert.True(t, c.step())
	assert.True(t, c.step())
	assert.Equal(t, uint64(2), c.Failures())

	assert.True(t, c.step())
	assert.Equal(t, uint64(1), c.Uses())

	s.Shutdown()
	assert.False(t, c.step())
}

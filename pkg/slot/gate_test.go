package slot

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestGate verifies that closing the gate wakes up every listener and that
// the closed state is visible to them.
func TestGate(t *testing.T) {
	gate := NewGate()
	assert.False(t, gate.Closed())

	wg := sync.WaitGroup{}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Wait for the gate to close.
			<-gate.Done()
			assert.True(t, gate.Closed())
		}()
	}

	// Simulate some work before closing the gate.
	time.Sleep(10 * time.Millisecond)
	assert.True(t, gate.Close())
	// Wait for the listeners to finish.
	wg.Wait()
}

// TestGate_CloseOnce verifies that only the first Close reports the
// transition, even when called concurrently.
func TestGate_CloseOnce(t *testing.T) {
	gate := NewGate()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if gate.Close() {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.True(t, gate.Closed())
	assert.False(t, gate.Close())
}

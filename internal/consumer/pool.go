package consumer

import (
	"context"
	"sync"
)

// Pool runs consumers concurrently until they return or the pool is closed.
type Pool struct {
	consumers chan *Consumer // channel through which consumers are sent to be run
	closed    bool           // set once by Close, guarded by mu
	mu        sync.RWMutex   // used to protect closing of the consumers channel
	wg        sync.WaitGroup // used to wait for all consumers to return
}

// NewPool creates a new instance of Pool.
func NewPool() *Pool {
	return &Pool{
		consumers: make(chan *Consumer),
	}
}

// Run starts every consumer added to the pool with the provided context. It
// returns once the pool is closed.
func (m *Pool) Run(ctx context.Context) {
	// The iteration ends when the channel is closed by Close.
	for c := range m.consumers {
		c := c
		go func() {
			defer m.wg.Done()
			c.Run(ctx)
		}()
	}
}

// Add hands a consumer over to the pool. It blocks until Run picks it up and
// is a no-op once the pool is closed.
func (m *Pool) Add(c *Consumer) {
	// Acquire a read lock to safely check if the channel is open.
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return
	}

	// The consumer is counted before Close can take the write lock, so
	// Close never waits on a counter that is still growing.
	m.wg.Add(1)
	m.consumers <- c
}

// Close stops accepting consumers and waits for the running ones to return.
func (m *Pool) Close() {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		// Interrupt the Run loop.
		close(m.consumers)
	}
	m.mu.Unlock()

	m.wg.Wait()
}

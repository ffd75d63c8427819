package slot

import (
	"sync"
	"sync/atomic"
)

// Gate is a one-way latch. Once closed it never opens again.
type Gate struct {
	once   sync.Once     // ensures the gate is closed only once
	closed atomic.Bool   // lock-free view of the latch for fast paths
	notify chan struct{} // closed together with the gate
}

// NewGate creates an open gate.
func NewGate() *Gate {
	return &Gate{
		notify: make(chan struct{}),
	}
}

// Close closes the gate if it has not been closed already. It reports whether
// this call performed the transition.
func (m *Gate) Close() (closed bool) {
	m.once.Do(func() {
		// The flag is published before listeners are woken up, so anyone
		// receiving from Done observes Closed() == true.
		m.closed.Store(true)
		close(m.notify)
		closed = true
	})
	return closed
}

// Closed reports whether the gate has been closed.
func (m *Gate) Closed() bool {
	return m.closed.Load()
}

// Done returns a channel that is closed when the gate closes.
func (m *Gate) Done() <-chan struct{} {
	return m.notify
}

// Package session implements the shared resource kept in the host's slot.
package session

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "go.uber.org/zap"

	"github.com/yanet-platform/lazyslot/pkg/slot"
)

var (
	// ErrClosed is returned when a closed session is used or closed again.
	ErrClosed = errors.New("session is closed")
	// ErrUnavailable is returned by the factory while creation is set up to
	// fail.
	ErrUnavailable = errors.New("session backend is unavailable")
)

// Session is an expensive shared resource. It is safe for concurrent use.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	uses   atomic.Uint64
	closed atomic.Bool

	log *log.Logger
}

// Use records one use of the session and returns the total number of uses.
func (m *Session) Use() (uint64, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	return m.uses.Add(1), nil
}

// Uses returns the number of recorded uses.
func (m *Session) Uses() uint64 {
	return m.uses.Load()
}

// Closed reports whether the session has been closed.
func (m *Session) Closed() bool {
	return m.closed.Load()
}

// Close releases the session. Closing twice is an error.
func (m *Session) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	m.log.Info("session closed", log.Uint64("uses", m.uses.Load()))
	return nil
}

// NewFactory returns a slot factory producing sessions according to config.
func NewFactory(config *Config, logger *log.Logger) slot.Factory[*Session] {
	var (
		attempts int
		mu       sync.Mutex
	)

	return func() (*Session, error) {
		// The slot serializes factory calls, the lock only keeps the attempt
		// counter consistent for direct callers.
		mu.Lock()
		attempts++
		attempt := attempts
		mu.Unlock()

		time.Sleep(config.CreateDelay)

		if attempt <= config.FailFirst {
			return nil, fmt.Errorf("attempt %d: %w", attempt, ErrUnavailable)
		}

		id := uuid.New()
		logger.Info("session created", log.Stringer("id", id), log.Int("attempt", attempt))

		return &Session{
			ID:        id,
			CreatedAt: time.Now(),
			log:       logger.With(log.Stringer("session_id", id)),
		}, nil
	}
}

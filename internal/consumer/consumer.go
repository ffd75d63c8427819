// Package consumer contains the workers that use the shared session.
package consumer

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	log "go.uber.org/zap"

	"github.com/yanet-platform/lazyslot/internal/session"
	"github.com/yanet-platform/lazyslot/internal/utils/throttler"
	"github.com/yanet-platform/lazyslot/pkg/slot"
)

// failureLogBurst is the number of failures logged before throttling.
const failureLogBurst = 3

// Source hands out the shared session.
type Source interface {
	Acquire() (*session.Session, error)
}

// Consumer periodically acquires the shared session and uses it.
type Consumer struct {
	id       int
	source   Source
	interval time.Duration

	uses     atomic.Uint64
	failures atomic.Uint64

	log *log.Logger
}

// New creates a consumer polling source every interval.
func New(id int, source Source, interval time.Duration, logger *log.Logger) *Consumer {
	return &Consumer{
		id:       id,
		source:   source,
		interval: interval,
		log:      logger.With(log.Int("consumer", id)),
	}
}

// Run uses the session until ctx is done or the source refuses access
// permanently.
func (m *Consumer) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if !m.step() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// step performs one use of the session. It returns false when the consumer
// should stop.
func (m *Consumer) step() bool {
	s, err := m.source.Acquire()
	switch {
	case errors.Is(err, slot.ErrShutdown):
		m.log.Info("session slot is shut down, stopping")
		return false
	case err != nil:
		// Creation failures are retried on the next tick.
		failures := m.failures.Add(1)
		if !throttler.Throttle(failures, failureLogBurst) {
			m.log.Warn("session is unavailable", log.Error(err), log.Uint64("failures", failures))
		}
		return true
	}

	if _, err := s.Use(); err != nil {
		// The session was released by a concurrent shutdown; the next
		// acquire observes the closed slot.
		m.failures.Add(1)
		m.log.Debug("session was released while in use", log.Error(err))
		return true
	}
	m.uses.Add(1)

	return true
}

// Uses returns the number of successful session uses.
func (m *Consumer) Uses() uint64 {
	return m.uses.Load()
}

// Failures returns the number of failed attempts.
func (m *Consumer) Failures() uint64 {
	return m.failures.Load()
}

// Package app wires the session slot with its consumers, metrics and
// servers, and delivers the teardown notification to the slot.
package app

import (
	"context"
	"time"

	log "go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanet-platform/lazyslot/internal/consumer"
	"github.com/yanet-platform/lazyslot/internal/monitoring/metrics"
	"github.com/yanet-platform/lazyslot/internal/monitoring/metrics/prometheus"
	"github.com/yanet-platform/lazyslot/internal/server"
	"github.com/yanet-platform/lazyslot/internal/session"
	"github.com/yanet-platform/lazyslot/internal/slotmetrics"
	"github.com/yanet-platform/lazyslot/pkg/slot"
)

// App is the slot host.
type App struct {
	config *Config

	slot      *slot.Slot[*session.Session]
	consumers []*consumer.Consumer
	pool      *consumer.Pool

	server  *server.Server
	metrics metrics.Metrics
	logger  *log.Logger
}

// New creates the host. Nothing is started and no session is created until
// Run.
func New(config *Config, logger *log.Logger) *App {
	provider := prometheus.NewProvider(logger)

	sessions := slot.New(
		session.NewFactory(config.Session, logger.With(log.String("component", "session"))),
		slot.WithName(config.Session.Name),
		slot.WithLogger(logger),
		slot.WithObserver(slotmetrics.New(provider, config.Session.Name)),
	)

	consumers := make([]*consumer.Consumer, config.Consumers.Count)
	for i := range consumers {
		consumers[i] = consumer.New(i, sessions, config.Consumers.Interval, logger)
	}

	m := &App{
		config:    config,
		slot:      sessions,
		consumers: consumers,
		pool:      consumer.NewPool(),
		metrics:   provider,
		logger:    logger,
	}
	m.server = server.New(config.Server, provider, m, logger)

	return m
}

// Slot returns the session slot.
func (m *App) Slot() *slot.Slot[*session.Session] {
	return m.slot
}

// Status implements server.StatusProvider. It never creates a session.
func (m *App) Status() server.Status {
	status := server.Status{
		Slot:   m.slot.Name(),
		State:  m.slot.State().String(),
		Loaded: m.slot.Loaded(),
	}
	// Only peek at an already created session.
	if status.Loaded {
		if s, ok := m.slot.Get(); ok {
			status.SessionID = s.ID.String()
		}
	}
	return status
}

// Run starts all components and blocks until ctx is cancelled or one of them
// fails. On return the slot is shut down.
func (m *App) Run(ctx context.Context) error {
	wg, ctx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		return m.server.Run(ctx)
	})

	wg.Go(func() error {
		m.pool.Run(ctx)
		return nil
	})

	wg.Go(func() error {
		for _, c := range m.consumers {
			m.pool.Add(c)
		}
		return nil
	})

	// Health follows the slot gate, whoever closes it.
	wg.Go(func() error {
		select {
		case <-m.slot.Done():
			m.server.SetServing(false)
		case <-ctx.Done():
		}
		return nil
	})

	// Handle graceful shutdown when the context is cancelled.
	wg.Go(func() error {
		<-ctx.Done()
		m.Stop()
		return ctx.Err()
	})

	return wg.Wait()
}

// Stop delivers the teardown notification to the slot and stops the rest of
// the components. It is safe to call more than once.
func (m *App) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), m.config.ShutdownTimeout)
	defer cancel()

	start := time.Now()

	// The slot goes first: consumers observe the closed gate and return,
	// and the health status flips before the servers go away.
	m.slot.Shutdown()
	m.pool.Close()
	m.server.Stop()

	if err := m.metrics.Shutdown(shutdownCtx); err != nil {
		m.logger.Error("failed to shutdown metrics", log.Error(err))
	}

	m.logger.Info("host stopped", log.Duration("elapsed", time.Since(start)))
}

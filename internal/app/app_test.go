package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	log "go.uber.org/zap"

	"github.com/yanet-platform/lazyslot/pkg/slot"
)

// testConfig returns a configuration listening on ephemeral ports.
func testConfig() *Config {
	config := DefaultConfig()
	config.Server.HTTPAddr = "127.0.0.1:0"
	config.Server.GRPCAddr = "127.0.0.1:0"
	config.Session.CreateDelay = time.Millisecond
	config.Session.FailFirst = 1
	config.Consumers.Count = 3
	config.Consumers.Interval = time.Millisecond
	return config
}

// TestApp_Status verifies that the status endpoint never creates a session.
func TestApp_Status(t *testing.T) {
	app := New(testConfig(), log.NewNop())

	status := app.Status()
	assert.Equal(t, "session", status.Slot)
	assert.Equal(t, "open", status.State)
	assert.False(t, status.Loaded)
	assert.Empty(t, status.SessionID)
	assert.False(t, app.Slot().Loaded())
}

// TestApp_Run verifies the host lifecycle: consumers share one lazily
// created session and cancellation shuts the slot down for good.
func TestApp_Run(t *testing.T) {
	app := New(testConfig(), log.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return app.Status().Loaded
	}, 5*time.Second, time.Millisecond)

	session, ok := app.Slot().Get()
	require.True(t, ok)
	assert.Equal(t, session.ID.String(), app.Status().SessionID)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}

	assert.Equal(t, slot.StateShuttingDown, app.Slot().State())
	assert.True(t, session.Closed())

	_, err := app.Slot().Acquire()
	assert.ErrorIs(t, err, slot.ErrShutdown)

	// A second teardown notification is harmless.
	app.Stop()
}

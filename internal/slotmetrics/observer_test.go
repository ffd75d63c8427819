package slotmetrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	log "go.uber.org/zap"

	"github.com/yanet-platform/lazyslot/internal/monitoring/metrics/prometheus"
	"github.com/yanet-platform/lazyslot/pkg/slot"
)

// scrape returns the text exposition of the provider.
func scrape(t *testing.T, provider *prometheus.Provider) string {
	t.Helper()

	recorder := httptest.NewRecorder()
	provider.GetHTTPHandler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	return string(body)
}

// TestObserver drives a slot through failure, creation and shutdown and
// checks the exported metrics.
func TestObserver(t *testing.T) {
	provider := prometheus.NewProvider(log.NewNop())

	calls := 0
	s := slot.New(func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("not yet")
		}
		return "ready", nil
	}, slot.WithName("session"), slot.WithObserver(New(provider, "session")))

	_, ok := s.Get()
	require.False(t, ok)
	_, ok = s.Get()
	require.True(t, ok)

	body := scrape(t, provider)
	assert.Contains(t, body, `lazyslot_create_total{result="failure",slot="session"} 1`)
	assert.Contains(t, body, `lazyslot_create_total{result="success",slot="session"} 1`)
	assert.Contains(t, body, `lazyslot_create_duration_seconds_count{slot="session"} 2`)
	assert.Contains(t, body, `lazyslot_loaded{slot="session"} 1`)

	s.Shutdown()
	_, ok = s.Get()
	require.False(t, ok)

	body = scrape(t, provider)
	assert.Contains(t, body, `lazyslot_loaded{slot="session"} 0`)
	assert.Contains(t, body, `lazyslot_shutting_down{slot="session"} 1`)
	assert.Contains(t, body, `lazyslot_refused_total{slot="session"} 1`)
	assert.Contains(t, body, `lazyslot_release_errors_total{slot="session"} 0`)
}

// TestObserver_Adopt verifies that an instance supplied by the lookup hook is
// reported as loaded.
func TestObserver_Adopt(t *testing.T) {
	provider := prometheus.NewProvider(log.NewNop())

	s := slot.New(func() (string, error) {
		return "created", nil
	}, slot.WithObserver(New(provider, "config"))).WithLookup(func() (string, bool) {
		return "existing", true
	})

	value, ok := s.Get()
	require.True(t, ok)
	require.Equal(t, "existing", value)

	body := scrape(t, provider)
	assert.Contains(t, body, `lazyslot_create_total{result="adopted",slot="config"} 1`)
	assert.Contains(t, body, `lazyslot_loaded{slot="config"} 1`)
	assert.NotContains(t, body, `result="success",slot="config"`)
}

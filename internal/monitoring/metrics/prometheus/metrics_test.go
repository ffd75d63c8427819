package prometheus

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	log "go.uber.org/zap"

	"github.com/yanet-platform/lazyslot/internal/monitoring/metrics"
)

// scrape returns the text exposition of the provider.
func scrape(t *testing.T, provider *Provider) string {
	t.Helper()

	recorder := httptest.NewRecorder()
	provider.GetHTTPHandler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	return string(body)
}

// TestProvider_ConstLabels verifies that the same metric name can be
// registered for several const label sets and that repeated lookups return
// the already registered collector.
func TestProvider_ConstLabels(t *testing.T) {
	provider := NewProvider(log.NewNop())

	first := provider.GetCounter("refused_total", metrics.WithConstLabels(metrics.Labels{"slot": "a"}))
	second := provider.GetCounter("refused_total", metrics.WithConstLabels(metrics.Labels{"slot": "b"}))
	again := provider.GetCounter("refused_total", metrics.WithConstLabels(metrics.Labels{"slot": "a"}))

	first.Inc()
	again.Inc()
	second.Add(5)

	body := scrape(t, provider)
	assert.Contains(t, body, `lazyslot_refused_total{slot="a"} 2`)
	assert.Contains(t, body, `lazyslot_refused_total{slot="b"} 5`)
}

// TestProvider_Shutdown verifies that shutting the provider down removes
// every metric it created from the exposition.
func TestProvider_Shutdown(t *testing.T) {
	provider := NewProvider(log.NewNop())

	provider.GetGauge("loaded", metrics.WithConstLabels(metrics.Labels{"slot": "a"})).Set(1)
	provider.GetGauge("loaded", metrics.WithConstLabels(metrics.Labels{"slot": "b"})).Set(1)
	require.Contains(t, scrape(t, provider), "lazyslot_loaded")

	require.NoError(t, provider.Shutdown(context.Background()))
	assert.NotContains(t, scrape(t, provider), "lazyslot_")
}

// TestProvider_CounterVecBadLabels verifies that a label mismatch yields a
// no-op counter instead of a panic.
func TestProvider_CounterVecBadLabels(t *testing.T) {
	provider := NewProvider(log.NewNop())

	vec := provider.GetCounterVec("create_total", []string{"result"})
	counter := vec.GetMetricWith(metrics.Labels{"unknown": "x"})
	assert.IsType(t, &metrics.NopCounter{}, counter)

	vec.GetMetricWith(metrics.Labels{"result": "success"}).Inc()
	assert.Contains(t, scrape(t, provider), `lazyslot_create_total{result="success"} 1`)
}

// Package metrics defines the instrumentation surface used by the slot host.
// Implementations live in subpackages; the Nop variants are used whenever
// metrics are disabled.
package metrics

import (
	"context"
	"net/http"
)

// Metrics is a provider that can also expose what it collected.
type Metrics interface {
	Provider
	Gatherer
}

// Provider creates or returns already registered metrics by name.
type Provider interface {
	GetCounter(name string, opts ...MetricOption) Counter
	GetGauge(name string, opts ...MetricOption) Gauge
	GetHistogram(name string, buckets []float64, opts ...MetricOption) Histogram
	GetCounterVec(name string, labelNames []string, opts ...MetricOption) CounterVec

	Shutdown(ctx context.Context) error
}

// Gatherer exposes collected metrics over HTTP.
type Gatherer interface {
	GetHTTPHandler() http.Handler
}

type Counter interface {
	Inc()
	Add(float64)
}

type Gauge interface {
	Add(float64)
	Sub(float64)
	Set(float64)
}

type Histogram interface {
	Observe(float64)
}

type Labels map[string]string

type CounterVec interface {
	GetMetricWith(Labels) Counter
}

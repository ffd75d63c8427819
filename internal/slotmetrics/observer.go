// Package slotmetrics reports slot transitions to a metrics provider.
package slotmetrics

import (
	"time"

	"github.com/yanet-platform/lazyslot/internal/monitoring/metrics"
	"github.com/yanet-platform/lazyslot/pkg/slot"
)

var createDurationBuckets = []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5}

// Observer implements slot.Observer on top of a metrics.Provider. Every
// metric carries the slot name as a const label.
type Observer struct {
	created        metrics.CounterVec
	createDuration metrics.Histogram
	refused        metrics.Counter
	releaseErrors  metrics.Counter
	loaded         metrics.Gauge
	shuttingDown   metrics.Gauge
}

var _ slot.Observer = &Observer{}

// New registers the slot metrics for the slot with the given name.
func New(provider metrics.Provider, slotName string) *Observer {
	labels := metrics.WithConstLabels(metrics.Labels{"slot": slotName})

	return &Observer{
		created: provider.GetCounterVec(
			"create_total",
			[]string{"result"},
			labels,
			metrics.WithDescription("Number of instance acquisitions by result: success, failure or adopted."),
		),
		createDuration: provider.GetHistogram(
			"create_duration_seconds",
			createDurationBuckets,
			labels,
			metrics.WithDescription("Time spent in the factory."),
		),
		refused: provider.GetCounter(
			"refused_total",
			labels,
			metrics.WithDescription("Number of accesses refused after shutdown."),
		),
		releaseErrors: provider.GetCounter(
			"release_errors_total",
			labels,
			metrics.WithDescription("Number of instances that failed to close on shutdown."),
		),
		loaded: provider.GetGauge(
			"loaded",
			labels,
			metrics.WithDescription("1 while the slot holds an instance."),
		),
		shuttingDown: provider.GetGauge(
			"shutting_down",
			labels,
			metrics.WithDescription("1 once the slot has been shut down."),
		),
	}
}

func (m *Observer) ObserveCreate(elapsed time.Duration, err error) {
	m.createDuration.Observe(elapsed.Seconds())

	if err != nil {
		m.created.GetMetricWith(metrics.Labels{"result": "failure"}).Inc()
		return
	}
	m.created.GetMetricWith(metrics.Labels{"result": "success"}).Inc()
	m.loaded.Set(1)
}

func (m *Observer) ObserveAdopt() {
	m.created.GetMetricWith(metrics.Labels{"result": "adopted"}).Inc()
	m.loaded.Set(1)
}

func (m *Observer) ObserveRefused() {
	m.refused.Inc()
}

func (m *Observer) ObserveShutdown(_ bool, err error) {
	m.loaded.Set(0)
	m.shuttingDown.Set(1)
	if err != nil {
		m.releaseErrors.Inc()
	}
}

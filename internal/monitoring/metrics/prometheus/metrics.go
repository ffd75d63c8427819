// Package prometheus implements metrics.Metrics on top of a private
// Prometheus registry.
package prometheus

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "go.uber.org/zap"

	"github.com/yanet-platform/lazyslot/internal/monitoring/metrics"
)

type Provider struct {
	registry *prometheus.Registry

	counters    *Registry[prometheus.Counter]
	gauges      *Registry[prometheus.Gauge]
	histograms  *Registry[prometheus.Histogram]
	countersVec *Registry[*CounterVec]

	log *log.Logger
}

var _ metrics.Metrics = &Provider{}

// NewProvider creates a provider whose registry also carries the Go runtime
// and process collectors.
func NewProvider(logger *log.Logger) *Provider {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return &Provider{
		registry:    registry,
		counters:    newRegistry[prometheus.Counter](registry),
		gauges:      newRegistry[prometheus.Gauge](registry),
		histograms:  newRegistry[prometheus.Histogram](registry),
		countersVec: newRegistry[*CounterVec](registry),
		log:         logger.With(log.String("metrics_provider", "prometheus")),
	}
}

func (m *Provider) GetCounter(name string, opts ...metrics.MetricOption) metrics.Counter {
	options := metrics.ApplyOpts(opts)

	counter, err := m.counters.GetOrCreateMetric(metricKey(name, options.ConstLabels), func() prometheus.Counter {
		return prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace:   metrics.Namespace,
				Name:        name,
				Help:        options.Description,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
		)
	})
	if err != nil {
		m.log.Error("failed to create counter", log.String("name", name), log.Error(err))
		return &metrics.NopCounter{}
	}

	return counter
}

func (m *Provider) GetGauge(name string, opts ...metrics.MetricOption) metrics.Gauge {
	options := metrics.ApplyOpts(opts)

	gauge, err := m.gauges.GetOrCreateMetric(metricKey(name, options.ConstLabels), func() prometheus.Gauge {
		return prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   metrics.Namespace,
				Name:        name,
				Help:        options.Description,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
		)
	})
	if err != nil {
		m.log.Error("failed to create gauge", log.String("name", name), log.Error(err))
		return &metrics.NopGauge{}
	}

	return gauge
}

func (m *Provider) GetHistogram(name string, buckets []float64, opts ...metrics.MetricOption) metrics.Histogram {
	options := metrics.ApplyOpts(opts)

	histogram, err := m.histograms.GetOrCreateMetric(metricKey(name, options.ConstLabels), func() prometheus.Histogram {
		return prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace:   metrics.Namespace,
				Name:        name,
				Help:        options.Description,
				Buckets:     buckets,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
		)
	})
	if err != nil {
		m.log.Error("failed to create histogram", log.String("name", name), log.Error(err))
		return &metrics.NopHistogram{}
	}

	return histogram
}

func (m *Provider) GetCounterVec(name string, labelNames []string, opts ...metrics.MetricOption) metrics.CounterVec {
	options := metrics.ApplyOpts(opts)

	counterVec, err := m.countersVec.GetOrCreateMetric(metricKey(name, options.ConstLabels), func() *CounterVec {
		return newCounterVec(
			prometheus.CounterOpts{
				Namespace:   metrics.Namespace,
				Name:        name,
				Help:        options.Description,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
			labelNames,
			m.log,
		)
	})
	if err != nil {
		m.log.Error("failed to create counter vector", log.String("name", name), log.Error(err))
		return &metrics.NopCounterVec{}
	}

	return counterVec
}

func (m *Provider) GetHTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// Shutdown unregisters every metric created by the provider.
func (m *Provider) Shutdown(_ context.Context) error {
	m.counters.Shutdown()
	m.gauges.Shutdown()
	m.histograms.Shutdown()
	m.countersVec.Shutdown()

	return nil
}

// metricKey identifies a collector by its name and const labels, so the same
// metric can be registered once per label set.
func metricKey(name string, labels metrics.Labels) string {
	if len(labels) == 0 {
		return name
	}

	pairs := make([]string, 0, len(labels))
	for key, value := range labels {
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)

	return name + "{" + strings.Join(pairs, ",") + "}"
}

// Package metrics counts analysis outcomes with Prometheus collectors. The CLI
// is short-lived, so metrics are dumped to a node_exporter textfile rather
// than served.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"propertytax/internal/analysis"
)

const namespace = "propertytax"

// Metrics implements analysis.Observer.
type Metrics struct {
	registry *prometheus.Registry

	pins          *prometheus.CounterVec
	sources       *prometheus.CounterVec
	warnings      prometheus.Counter
	rateFallbacks prometheus.Counter
	estimates     prometheus.Histogram
}

var _ analysis.Observer = (*Metrics)(nil)

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pins_analyzed_total",
			Help:      "PINs analyzed, by lookup outcome.",
		}, []string{"outcome"}),
		sources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_source_total",
			Help:      "Selected assessment source for found PINs.",
		}, []string{"source"}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Data-quality warnings attached to results.",
		}),
		rateFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_fallbacks_total",
			Help:      "Results that used the property record rate because the neighborhood had no rate table entry.",
		}),
		estimates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimated_tax_dollars",
			Help:      "Estimated annual tax per computed result.",
			Buckets:   prometheus.ExponentialBuckets(1000, 2, 10),
		}),
	}
	m.registry.MustRegister(m.pins, m.sources, m.warnings, m.rateFallbacks, m.estimates)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveResult records one analysis result.
func (m *Metrics) ObserveResult(r analysis.Result) {
	if !r.Found {
		m.pins.WithLabelValues("not_found").Inc()
	} else {
		m.pins.WithLabelValues("found").Inc()
		m.sources.WithLabelValues(string(r.Assessment.Source)).Inc()
	}
	m.warnings.Add(float64(len(r.Warnings)))
	if r.RateFallback {
		m.rateFallbacks.Inc()
	}
	if v, ok := r.EstimatedTax.Get(); ok {
		m.estimates.Observe(v)
	}
}

// WriteTextfile writes the current values in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

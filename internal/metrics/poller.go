// Package metrics exposes Prometheus collectors for the quote poller.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes.
const (
	OutcomeFresh     = "fresh"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// PollMetrics records lookups, deliveries and pass durations. A nil
// *PollMetrics, or one built without a registerer, records nothing.
type PollMetrics struct {
	lookups   *prometheus.CounterVec
	published prometheus.Counter
	duration  prometheus.Histogram
}

// NewPollMetrics registers the poller collectors on reg.
func NewPollMetrics(reg prometheus.Registerer) *PollMetrics {
	if reg == nil {
		return &PollMetrics{}
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_lookups_total",
		Help: "Price lookups by kind and outcome.",
	}, []string{"kind", "outcome"})
	published := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quote_events_published_total",
		Help: "Quote events accepted by at least one publisher.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "poll_pass_duration_seconds",
		Help:    "Duration of a full watchlist pass in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(lookups, published, duration)
	return &PollMetrics{
		lookups:   lookups,
		published: published,
		duration:  duration,
	}
}

// IncLookup counts one lookup of the given price kind.
func (m *PollMetrics) IncLookup(kind, outcome string) {
	if m == nil || m.lookups == nil {
		return
	}
	m.lookups.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// IncPublished counts one delivered quote event.
func (m *PollMetrics) IncPublished() {
	if m == nil || m.published == nil {
		return
	}
	m.published.Inc()
}

// ObservePass records how long one pass over the watchlist took.
func (m *PollMetrics) ObservePass(d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

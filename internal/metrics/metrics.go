// Package metrics exports search statistics to Prometheus.
package metrics

import (
	"github.com/pdrpinto/gridpath"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements gridpath.Observer.
type Collector struct {
	searches   *prometheus.CounterVec
	expanded   prometheus.Histogram
	pathLength prometheus.Histogram
	duration   prometheus.Histogram
}

var _ gridpath.Observer = (*Collector)(nil)

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridpath_searches_total",
				Help: "Total number of searches by outcome",
			},
			[]string{"outcome"},
		),
		expanded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridpath_expanded_nodes",
			Help:    "Nodes expanded per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		pathLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridpath_path_length",
			Help:    "Length of found paths in cells",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridpath_search_duration_seconds",
			Help:    "Duration of searches",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	for _, collector := range []prometheus.Collector{c.searches, c.expanded, c.pathLength, c.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveSearch records one search.
func (c *Collector) ObserveSearch(stats gridpath.Stats) {
	c.searches.WithLabelValues(string(stats.Outcome)).Inc()
	c.expanded.Observe(float64(stats.Expanded))
	c.duration.Observe(stats.Duration.Seconds())
	if stats.Outcome == gridpath.OutcomeFound {
		c.pathLength.Observe(float64(stats.PathLength))
	}
}

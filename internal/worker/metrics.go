package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultNotified = "notified"
	resultQuiet    = "quiet"
	resultFailed   = "failed"
	resultPanicked = "panicked"
)

type Metrics struct {
	cycles           *prometheus.CounterVec
	lines            prometheus.Counter
	deliveriesFailed prometheus.Counter
	cycleDuration    prometheus.Histogram
	trackedItems     prometheus.Gauge
}

// NewMetrics registers the scheduler collectors in reg. A nil reg means the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "price_tracker_cycles_total",
			Help: "Update cycles by outcome.",
		}, []string{"result"}),
		lines: factory.NewCounter(prometheus.CounterOpts{
			Name: "price_tracker_notification_lines_total",
			Help: "Notification lines produced by update cycles.",
		}),
		deliveriesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "price_tracker_deliveries_failed_total",
			Help: "Notifications that could not be delivered.",
		}),
		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "price_tracker_cycle_duration_seconds",
			Help:    "Time spent in one update cycle, delivery included.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		trackedItems: factory.NewGauge(prometheus.GaugeOpts{
			Name: "price_tracker_tracked_items",
			Help: "Items currently tracked.",
		}),
	}
}
